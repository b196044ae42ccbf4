package memrepo

import (
	"context"
	"sort"

	"shopflow/internal/model"
)

type supplierRepo struct{ s *Store }

func (r *supplierRepo) nameTaken(name string, selfID uint) bool {
	for id, sup := range r.s.st.data.suppliers {
		if id != selfID && sup.Name == name {
			return true
		}
	}
	return false
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	release, err := r.s.begin("suppliers.create")
	if err != nil {
		return err
	}
	defer release()

	if r.nameTaken(supplier.Name, 0) {
		return duplicate("suppliers_name_key")
	}
	d := r.s.st.data
	now := r.s.st.now()
	supplier.ID = d.next("suppliers")
	supplier.CreatedAt, supplier.UpdatedAt = now, now
	d.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	release, err := r.s.begin("suppliers.list")
	if err != nil {
		return nil, err
	}
	defer release()

	suppliers := []model.Supplier{}
	for _, sup := range r.s.st.data.suppliers {
		suppliers = append(suppliers, sup)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	release, err := r.s.begin("suppliers.find")
	if err != nil {
		return nil, err
	}
	defer release()

	sup, ok := r.s.st.data.suppliers[id]
	if !ok {
		return nil, notFound()
	}
	return &sup, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	release, err := r.s.begin("suppliers.update")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	current, ok := d.suppliers[supplier.ID]
	if !ok {
		return notFound()
	}
	if r.nameTaken(supplier.Name, supplier.ID) {
		return duplicate("suppliers_name_key")
	}
	updated := *supplier
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.s.st.now()
	d.suppliers[supplier.ID] = updated
	supplier.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id uint) error {
	release, err := r.s.begin("suppliers.delete")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.suppliers[id]; !ok {
		return notFound()
	}
	delete(d.suppliers, id)
	return nil
}

package memrepo

import (
	"context"
	"sort"
	"strings"

	"shopflow/internal/model"
	"shopflow/internal/repository"
)

type productRepo struct{ s *Store }

func (r *productRepo) checkRefs(p *model.Product, selfID uint) error {
	d := r.s.st.data
	for id, other := range d.products {
		if id != selfID && other.SKU == p.SKU {
			return duplicate("products_sku_key")
		}
	}
	if p.CategoryID != nil {
		if _, ok := d.categories[*p.CategoryID]; !ok {
			return referenced("products_category_id_fkey")
		}
	}
	if p.Quantity < 0 {
		return ErrCheckViolation
	}
	return nil
}

// withCategory fills the preloaded association. Caller holds the lock.
func (r *productRepo) withCategory(p model.Product) model.Product {
	p.Category = nil
	if p.CategoryID != nil {
		if c, ok := r.s.st.data.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	release, err := r.s.begin("products.create")
	if err != nil {
		return err
	}
	defer release()

	if err := r.checkRefs(product, 0); err != nil {
		return err
	}
	d := r.s.st.data
	now := r.s.st.now()
	product.ID = d.next("products")
	product.CreatedAt, product.UpdatedAt = now, now
	stored := *product
	stored.Category = nil
	d.products[product.ID] = stored
	return nil
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	release, err := r.s.begin("products.list")
	if err != nil {
		return nil, err
	}
	defer release()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	products := []model.Product{}
	for _, p := range r.s.st.data.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		products = append(products, r.withCategory(p))
	}
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
	return products, nil
}

func (r *productRepo) find(op string, match func(model.Product) bool) (*model.Product, error) {
	release, err := r.s.begin(op)
	if err != nil {
		return nil, err
	}
	defer release()

	for _, p := range r.s.st.data.products {
		if match(p) {
			found := r.withCategory(p)
			return &found, nil
		}
	}
	return nil, notFound()
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	return r.find("products.find", func(p model.Product) bool { return p.ID == id })
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	return r.find("products.find_for_update", func(p model.Product) bool { return p.ID == id })
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return r.find("products.find", func(p model.Product) bool { return p.SKU == sku })
}

func (r *productRepo) FindBySKUForUpdate(ctx context.Context, sku string) (*model.Product, error) {
	return r.find("products.find_for_update", func(p model.Product) bool { return p.SKU == sku })
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	release, err := r.s.begin("products.update")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	current, ok := d.products[product.ID]
	if !ok {
		return notFound()
	}
	if err := r.checkRefs(product, product.ID); err != nil {
		return err
	}
	current.Name = product.Name
	current.SKU = product.SKU
	current.Price = product.Price
	current.CategoryID = product.CategoryID
	current.Supplier = product.Supplier
	current.LowStockThreshold = product.LowStockThreshold
	current.UpdatedAt = r.s.st.now()
	d.products[product.ID] = current
	product.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	release, err := r.s.begin("products.update_quantity")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	p, ok := d.products[id]
	if !ok {
		return notFound()
	}
	if quantity < 0 {
		return ErrCheckViolation
	}
	p.Quantity = quantity
	p.UpdatedAt = r.s.st.now()
	d.products[id] = p
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	release, err := r.s.begin("products.delete")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.products[id]; !ok {
		return notFound()
	}
	delete(d.products, id)

	kept := d.movements[:0:0]
	for _, m := range d.movements {
		if m.ProductID != id {
			kept = append(kept, m)
		}
	}
	d.movements = kept
	return nil
}

func (r *productRepo) ListLowStock(ctx context.Context, productID *uint) ([]model.Product, error) {
	release, err := r.s.begin("products.list_low_stock")
	if err != nil {
		return nil, err
	}
	defer release()

	products := []model.Product{}
	for _, p := range r.s.st.data.products {
		if productID != nil && p.ID != *productID {
			continue
		}
		if p.Quantity < p.LowStockThreshold {
			products = append(products, r.withCategory(p))
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity < products[j].Quantity
		}
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *productRepo) Stats(ctx context.Context) (*repository.ProductStats, error) {
	release, err := r.s.begin("products.stats")
	if err != nil {
		return nil, err
	}
	defer release()

	var stats repository.ProductStats
	for _, p := range r.s.st.data.products {
		stats.TotalProducts++
		stats.TotalQuantity += int64(p.Quantity)
		if p.Quantity < p.LowStockThreshold {
			stats.LowStockCount++
		}
		if p.Price != nil {
			stats.TotalValuation += int64(p.Quantity) * *p.Price
		}
	}
	return &stats, nil
}

func (r *productRepo) CountBySupplier(ctx context.Context) (map[string]int64, error) {
	release, err := r.s.begin("products.count_by_supplier")
	if err != nil {
		return nil, err
	}
	defer release()

	counts := map[string]int64{}
	for _, p := range r.s.st.data.products {
		if p.Supplier != nil {
			counts[*p.Supplier]++
		}
	}
	return counts, nil
}

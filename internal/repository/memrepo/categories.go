package memrepo

import (
	"context"
	"sort"

	"shopflow/internal/model"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) nameTaken(name string, selfID uint) bool {
	for id, c := range r.s.st.data.categories {
		if id != selfID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepo) withCount(c model.Category) model.Category {
	c.ProductCount = 0
	for _, p := range r.s.st.data.products {
		if p.CategoryID != nil && *p.CategoryID == c.ID {
			c.ProductCount++
		}
	}
	return c
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	release, err := r.s.begin("categories.create")
	if err != nil {
		return err
	}
	defer release()

	if r.nameTaken(category.Name, 0) {
		return duplicate("categories_name_key")
	}
	d := r.s.st.data
	now := r.s.st.now()
	category.ID = d.next("categories")
	category.CreatedAt, category.UpdatedAt = now, now
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	d.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	release, err := r.s.begin("categories.list")
	if err != nil {
		return nil, err
	}
	defer release()

	categories := []model.Category{}
	for _, c := range r.s.st.data.categories {
		categories = append(categories, r.withCount(c))
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	release, err := r.s.begin("categories.find")
	if err != nil {
		return nil, err
	}
	defer release()

	c, ok := r.s.st.data.categories[id]
	if !ok {
		return nil, notFound()
	}
	c = r.withCount(c)
	return &c, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	release, err := r.s.begin("categories.update")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	current, ok := d.categories[category.ID]
	if !ok {
		return notFound()
	}
	if r.nameTaken(category.Name, category.ID) {
		return duplicate("categories_name_key")
	}
	current.Name = category.Name
	current.Description = category.Description
	current.Color = category.Color
	current.UpdatedAt = r.s.st.now()
	d.categories[category.ID] = current
	category.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	release, err := r.s.begin("categories.delete")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.categories[id]; !ok {
		return notFound()
	}
	for _, p := range d.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return referenced("products_category_id_fkey")
		}
	}
	delete(d.categories, id)
	return nil
}

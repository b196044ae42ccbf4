package repository

import (
	"context"

	"gorm.io/gorm"

	"shopflow/internal/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

const categoryWithCount = "categories.*, (SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id) AS product_count"

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Select(categoryWithCount).Order("name ASC").Find(&categories).Error
	return categories, translate(err)
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Select(categoryWithCount).First(&category, "categories.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	res := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "color", "updated_at").
		Updates(category)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

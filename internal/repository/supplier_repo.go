package repository

import (
	"context"

	"gorm.io/gorm"

	"shopflow/internal/model"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	List(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uint) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Create(supplier).Error)
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	return suppliers, translate(r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error)
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	res := r.db.WithContext(ctx).Model(supplier).
		Select("name", "contact_name", "email", "phone", "address", "status", "notes", "updated_at").
		Updates(supplier)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

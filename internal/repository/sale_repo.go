package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shopflow/internal/model"
)

type SalesSummary struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"` // cents
}

// SaleRepository is append-only.
type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	List(ctx context.Context, limit int) ([]model.Sale, error)
	Summary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(sale).Error)
}

func (r *saleRepo) List(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, translate(err)
}

func (r *saleRepo) Summary(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at BETWEEN ? AND ?", start, end).
		Scan(&summary).Error
	if err != nil {
		return nil, translate(err)
	}
	return &summary, nil
}

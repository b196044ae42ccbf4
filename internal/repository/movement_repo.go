package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shopflow/internal/model"
)

type MovementFilter struct {
	ProductID *uint
	Limit     int
}

// DailyMovement is one point of the stock movement chart.
type DailyMovement struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// MovementRepository is append-only: there is no update or delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uint, limit int) ([]model.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, error)
	DailyTotals(ctx context.Context, start, end time.Time) ([]DailyMovement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	return translate(r.db.WithContext(ctx).Omit("Product", "User").Create(movement).Error)
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID uint, limit int) ([]model.StockMovement, error) {
	return r.List(ctx, MovementFilter{ProductID: &productID, Limit: limit})
}

func (r *movementRepo) List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := r.db.WithContext(ctx).Preload("Product").Preload("User")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Order("created_at DESC, id DESC").Find(&movements).Error
	return movements, translate(err)
}

func (r *movementRepo) DailyTotals(ctx context.Context, start, end time.Time) ([]DailyMovement, error) {
	var results []DailyMovement

	// aggregate signed deltas per day
	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyMovement
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, translate(err)
		}
		results = append(results, data)
	}

	return results, translate(rows.Err())
}

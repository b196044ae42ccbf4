package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopflow/internal/model"
)

type ProductFilter struct {
	Search     string
	CategoryID *uint
}

type ProductStats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalQuantity  int64 `json:"total_quantity"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"` // cents
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindBySKUForUpdate(ctx context.Context, sku string) (*model.Product, error)
	// Update writes every column except quantity, which only the ledger changes.
	Update(ctx context.Context, product *model.Product) error
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	Delete(ctx context.Context, id uint) error
	// ListLowStock returns products with quantity < threshold, lowest quantity first.
	ListLowStock(ctx context.Context, productID *uint) ([]model.Product, error)
	Stats(ctx context.Context) (*ProductStats, error)
	CountBySupplier(ctx context.Context) (map[string]int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Create(product).Error)
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Category")
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySKUForUpdate(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "sku", "price", "category_id", "supplier", "low_stock_threshold", "updated_at").
		Updates(product)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *productRepo) ListLowStock(ctx context.Context, productID *uint) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Category").Where("quantity < low_stock_threshold")
	if productID != nil {
		q = q.Where("id = ?", *productID)
	}
	err := q.Order("quantity ASC, id ASC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) Stats(ctx context.Context) (*ProductStats, error) {
	var stats ProductStats
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(`
			COUNT(*) AS total_products,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COUNT(*) FILTER (WHERE quantity < low_stock_threshold) AS low_stock_count,
			COALESCE(SUM(quantity::bigint * COALESCE(price, 0)), 0) AS total_valuation
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}

func (r *productRepo) CountBySupplier(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Supplier string
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("supplier, COUNT(*) AS count").
		Where("supplier IS NOT NULL").
		Group("supplier").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Supplier] = row.Count
	}
	return counts, nil
}

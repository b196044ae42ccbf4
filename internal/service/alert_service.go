package service

import (
	"context"
	"fmt"

	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/repository"
)

type LowStockAlert struct {
	ProductID         uint    `json:"id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Supplier          *string `json:"supplier"`
	CategoryName      *string `json:"category_name"`
	CategoryColor     *string `json:"category_color"`
}

type LowStockReport struct {
	Alerts  []LowStockAlert `json:"alerts"`
	Total   int             `json:"total"`
	Message string          `json:"message"`
}

type AlertService interface {
	// LowStock recomputes the alert set on every call. A non-nil productID
	// restricts it to that product.
	LowStock(ctx context.Context, productID *uint) (*LowStockReport, error)
}

type alertService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewAlertService(store repository.Store, m *metrics.Metrics) AlertService {
	return &alertService{store: store, metrics: m}
}

func (s *alertService) LowStock(ctx context.Context, productID *uint) (*LowStockReport, error) {
	products, err := s.store.Products().ListLowStock(ctx, productID)
	if err != nil {
		return nil, storeErr(err, "")
	}

	report := &LowStockReport{Alerts: make([]LowStockAlert, 0, len(products))}
	for i := range products {
		report.Alerts = append(report.Alerts, toAlert(&products[i]))
	}
	report.Total = len(report.Alerts)
	report.Message = lowStockMessage(report.Total)

	if productID == nil {
		s.metrics.LowStockProducts.Set(float64(report.Total))
	}
	return report, nil
}

func toAlert(p *model.Product) LowStockAlert {
	alert := LowStockAlert{
		ProductID:         p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		Supplier:          p.Supplier,
	}
	if p.Category != nil {
		name, color := p.Category.Name, p.Category.Color
		alert.CategoryName, alert.CategoryColor = &name, &color
	}
	return alert
}

func lowStockMessage(total int) string {
	if total == 0 {
		return "No low stock alerts"
	}
	return fmt.Sprintf("You have %d product(s) with low stock", total)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"shopflow/internal/apperr"
	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/repository"
)

type SaleItemInput struct {
	SKU       string       `json:"sku" validate:"required"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity" validate:"gt=0"`
	UnitPrice money.Amount `json:"unit_price" validate:"gte=0"`
}

type SaleInput struct {
	Items         []SaleItemInput `json:"items" validate:"required,min=1,dive"`
	Total         *money.Amount   `json:"total" validate:"omitempty,gte=0"` // replaces the item sum when set
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash mobile_money card"`
	CustomerName  *string         `json:"customer_name" validate:"omitempty,max=255"`
	CustomerPhone *string         `json:"customer_phone" validate:"omitempty,max=50"`
}

type SaleService interface {
	// Create records the sale and decrements stock for every item in one
	// transaction. Any failing item rolls back the sale and all decrements.
	Create(ctx context.Context, actor Actor, in SaleInput) (*model.Sale, error)
	List(ctx context.Context, limit int) ([]model.Sale, error)
}

type saleService struct {
	store    repository.Store
	ledger   *Ledger
	activity ActivityService
	events   EventPublisher
	metrics  *metrics.Metrics
}

func NewSaleService(store repository.Store, ledger *Ledger, activity ActivityService, events EventPublisher, m *metrics.Metrics) SaleService {
	return &saleService{store: store, ledger: ledger, activity: activity, events: events, metrics: m}
}

func (s *saleService) Create(ctx context.Context, actor Actor, in SaleInput) (*model.Sale, error) {
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if err := validate(in); err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, model.SaleItem{
			SKU:       normalizeSKU(it.SKU),
			Name:      strings.TrimSpace(it.Name),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.Cents(),
		})
	}

	itemsTotal := model.ComputeTotal(items)
	sale := &model.Sale{
		UserID:        actor.UserID(),
		TotalAmount:   itemsTotal,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: model.PaymentCompleted,
		CustomerName:  trimPtr(in.CustomerName),
		CustomerPhone: trimPtr(in.CustomerPhone),
		Items:         datatypes.NewJSONType(items),
	}
	if in.Total != nil {
		sale.TotalAmount = in.Total.Cents()
	}

	var touched []*model.Product
	var movements []*model.StockMovement
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return storeErr(err, "")
		}
		for i, item := range items {
			product, err := tx.Products().FindBySKUForUpdate(ctx, item.SKU)
			if err != nil {
				return storeErr(err, fmt.Sprintf("Product with SKU %s not found", item.SKU))
			}
			m, err := s.ledger.Apply(ctx, tx, product, -item.Quantity, model.ReasonSale, actor.UserID(), &sale.ID)
			if err != nil {
				var ae *apperr.Error
				if errors.As(err, &ae) && ae.Kind == apperr.KindValidation {
					return ae.WithField(fmt.Sprintf("items[%d].quantity", i))
				}
				return err
			}
			touched = append(touched, product)
			movements = append(movements, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Sales.Inc()
	s.metrics.StockAdjustments.WithLabelValues(model.ReasonSale).Add(float64(len(movements)))

	meta := map[string]interface{}{"total_amount": sale.TotalAmount, "payment_method": sale.PaymentMethod}
	if sale.TotalAmount != itemsTotal {
		meta["items_total"] = itemsTotal
	}
	s.activity.Record(ctx, newActivity(actor, model.ActionSale,
		fmt.Sprintf("Sale #%d recorded (%d item(s))", sale.ID, len(items)), model.EntitySale, sale.ID, meta))
	s.events.Publish(EventSaleCreated, map[string]interface{}{
		"id":           sale.ID,
		"total_amount": money.Amount(sale.TotalAmount),
		"item_count":   len(items),
	})
	for i, p := range touched {
		s.events.Publish(EventStockUpdate, stockEvent(p, movements[i]))
	}

	return sale, nil
}

func (s *saleService) List(ctx context.Context, limit int) ([]model.Sale, error) {
	sales, err := s.store.Sales().List(ctx, limit)
	return sales, storeErr(err, "")
}

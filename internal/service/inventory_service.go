package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"shopflow/internal/apperr"
	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/repository"
)

const MaxHistoryLimit = 500

var (
	ErrProductNotFound  = apperr.NotFound("Product not found")
	ErrDuplicateSKU     = apperr.Conflict("This SKU already exists. Please use a different SKU.").WithField("sku")
	ErrCategoryNotFound = apperr.Validation("Category not found").WithField("category_id")
)

type ProductInput struct {
	Name              string        `json:"name" validate:"required,max=255"`
	SKU               string        `json:"sku" validate:"required,sku,max=100"`
	Quantity          int           `json:"quantity" validate:"gte=0"`
	Price             *money.Amount `json:"price" validate:"omitempty,gte=0"`
	CategoryID        *uint         `json:"category_id"`
	Supplier          *string       `json:"supplier" validate:"omitempty,max=255"`
	LowStockThreshold *int          `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

// ProductUpdate is a partial update. A category_id of 0 clears the category
// and an empty supplier clears the supplier.
type ProductUpdate struct {
	Name              *string       `json:"name" validate:"omitempty,min=1,max=255"`
	SKU               *string       `json:"sku" validate:"omitempty,sku,max=100"`
	Quantity          *int          `json:"quantity" validate:"omitempty,gte=0"`
	Price             *money.Amount `json:"price" validate:"omitempty,gte=0"`
	CategoryID        *uint         `json:"category_id"`
	Supplier          *string       `json:"supplier" validate:"omitempty,max=255"`
	LowStockThreshold *int          `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

type AdjustResult struct {
	Product  *model.Product
	Movement *model.StockMovement
	Message  string
}

type InventoryService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id uint, in ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id uint) error
	AdjustStock(ctx context.Context, actor Actor, productID uint, delta int, reason string) (*AdjustResult, error)
	History(ctx context.Context, productID uint, limit int) ([]model.StockMovement, error)
	ListMovements(ctx context.Context, filter repository.MovementFilter) ([]model.StockMovement, error)
}

type InventoryConfig struct {
	DefaultThreshold    int
	DefaultHistoryLimit int
}

type inventoryService struct {
	store    repository.Store
	ledger   *Ledger
	activity ActivityService
	events   EventPublisher
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	cfg      InventoryConfig
}

func NewInventoryService(store repository.Store, ledger *Ledger, activity ActivityService, events EventPublisher, m *metrics.Metrics, log logrus.FieldLogger, cfg InventoryConfig) InventoryService {
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = model.DefaultLowStockThreshold
	}
	if cfg.DefaultHistoryLimit <= 0 {
		cfg.DefaultHistoryLimit = 50
	}
	return &inventoryService{
		store:    store,
		ledger:   ledger,
		activity: activity,
		events:   events,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// productWriteErr maps constraint failures of a product insert or update.
func productWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateKey):
		return ErrDuplicateSKU
	case errors.Is(err, repository.ErrReferenced):
		return ErrCategoryNotFound
	}
	return storeErr(err, "Product not found")
}

func (s *inventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.store.Products().List(ctx, filter)
	return products, storeErr(err, "")
}

func (s *inventoryService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrProductNotFound.Message)
	}
	return product, nil
}

func (s *inventoryService) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil, apperr.Validation("SKU is required").WithField("sku")
	}
	product, err := s.store.Products().FindBySKU(ctx, sku)
	if err != nil {
		return nil, storeErr(err, ErrProductNotFound.Message)
	}
	return product, nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = normalizeSKU(in.SKU)
	if err := validate(in); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:              in.Name,
		SKU:               in.SKU,
		CategoryID:        in.CategoryID,
		Supplier:          trimPtr(in.Supplier),
		LowStockThreshold: s.cfg.DefaultThreshold,
	}
	if in.Price != nil {
		cents := in.Price.Cents()
		product.Price = &cents
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold > 0 {
		product.LowStockThreshold = *in.LowStockThreshold
	}

	var initial *model.StockMovement
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			return productWriteErr(err)
		}
		if in.Quantity > 0 {
			m, err := s.ledger.Apply(ctx, tx, product, in.Quantity, model.ReasonInitialStock, actor.UserID(), nil)
			if err != nil {
				return err
			}
			initial = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if initial != nil {
		s.metrics.StockAdjustments.WithLabelValues(initial.Reason).Inc()
	}
	created := s.reload(ctx, product)

	s.activity.Record(ctx, newActivity(actor, model.ActionProductCreate,
		fmt.Sprintf("Product '%s' created", created.Name), model.EntityProduct, created.ID,
		map[string]interface{}{"sku": created.SKU, "quantity": created.Quantity}))
	s.events.Publish(EventProductCreated, productEvent(created))

	return created, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor Actor, id uint, in ProductUpdate) (*model.Product, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.SKU != nil {
		sku := normalizeSKU(*in.SKU)
		in.SKU = &sku
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	var (
		product  *model.Product
		movement *model.StockMovement
		oldQty   int
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return storeErr(err, ErrProductNotFound.Message)
		}
		oldQty = product.Quantity

		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.SKU != nil {
			product.SKU = *in.SKU
		}
		if in.Price != nil {
			cents := in.Price.Cents()
			product.Price = &cents
		}
		if in.CategoryID != nil {
			if *in.CategoryID == 0 {
				product.CategoryID = nil
			} else {
				product.CategoryID = in.CategoryID
			}
		}
		if in.Supplier != nil {
			product.Supplier = trimPtr(in.Supplier)
		}
		if in.LowStockThreshold != nil {
			product.LowStockThreshold = *in.LowStockThreshold
			if product.LowStockThreshold == 0 {
				product.LowStockThreshold = s.cfg.DefaultThreshold
			}
		}
		product.Category = nil

		if err := tx.Products().Update(ctx, product); err != nil {
			return productWriteErr(err)
		}

		if in.Quantity != nil && *in.Quantity != product.Quantity {
			movement, err = s.ledger.Apply(ctx, tx, product, *in.Quantity-product.Quantity, model.ReasonManualEdit, actor.UserID(), nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := s.reload(ctx, product)
	if movement != nil {
		s.metrics.StockAdjustments.WithLabelValues(movement.Reason).Inc()
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionProductUpdate,
		fmt.Sprintf("Product '%s' updated", updated.Name), model.EntityProduct, updated.ID,
		map[string]interface{}{"old_quantity": oldQty, "new_quantity": updated.Quantity}))
	s.events.Publish(EventProductUpdated, productEvent(updated))
	if movement != nil {
		s.events.Publish(EventStockUpdate, stockEvent(updated, movement))
	}

	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor Actor, id uint) error {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, ErrProductNotFound.Message)
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return storeErr(err, ErrProductNotFound.Message)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionProductDelete,
		fmt.Sprintf("Product '%s' deleted", product.Name), model.EntityProduct, id,
		map[string]interface{}{"sku": product.SKU}))
	s.events.Publish(EventProductDeleted, map[string]interface{}{"id": id, "sku": product.SKU, "name": product.Name})
	return nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, actor Actor, productID uint, delta int, reason string) (*AdjustResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = model.ReasonManualAdjustment
	}
	if delta == 0 {
		return nil, ErrZeroAdjustment.WithField("adjustment")
	}

	var (
		product  *model.Product
		movement *model.StockMovement
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return storeErr(err, ErrProductNotFound.Message)
		}
		movement, err = s.ledger.Apply(ctx, tx, product, delta, reason, actor.UserID(), nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	adjusted := s.reload(ctx, product)
	s.metrics.StockAdjustments.WithLabelValues(reason).Inc()

	s.activity.Record(ctx, newActivity(actor, model.ActionStockAdjustment,
		fmt.Sprintf("Stock of '%s' adjusted by %+d", adjusted.Name, movement.Quantity), model.EntityProduct, adjusted.ID,
		map[string]interface{}{
			"reason":          reason,
			"requested":       delta,
			"applied":         movement.Quantity,
			"quantity_before": movement.QuantityBefore,
			"quantity_after":  movement.QuantityAfter,
		}))
	s.events.Publish(EventStockUpdate, stockEvent(adjusted, movement))

	return &AdjustResult{Product: adjusted, Movement: movement, Message: adjustMessage(movement.Quantity)}, nil
}

func adjustMessage(applied int) string {
	switch {
	case applied > 0:
		return fmt.Sprintf("Stock increased by %d", applied)
	case applied < 0:
		return fmt.Sprintf("Stock decreased by %d", -applied)
	default:
		return "Stock unchanged"
	}
}

func (s *inventoryService) History(ctx context.Context, productID uint, limit int) ([]model.StockMovement, error) {
	if _, err := s.store.Products().FindByID(ctx, productID); err != nil {
		return nil, storeErr(err, ErrProductNotFound.Message)
	}
	movements, err := s.store.Movements().ListByProduct(ctx, productID, s.clampLimit(limit))
	return movements, storeErr(err, "")
}

func (s *inventoryService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]model.StockMovement, error) {
	filter.Limit = s.clampLimit(filter.Limit)
	movements, err := s.store.Movements().List(ctx, filter)
	return movements, storeErr(err, "")
}

func (s *inventoryService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// reload fetches the committed row with its category. On failure the
// in-memory copy is returned, since the write itself already succeeded.
func (s *inventoryService) reload(ctx context.Context, product *model.Product) *model.Product {
	fresh, err := s.store.Products().FindByID(ctx, product.ID)
	if err != nil {
		s.log.WithError(err).WithField("product_id", product.ID).Warn("reload after write failed")
		return product
	}
	return fresh
}

func productEvent(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":           p.ID,
		"sku":          p.SKU,
		"name":         p.Name,
		"quantity":     p.Quantity,
		"is_low_stock": p.IsLowStock(),
	}
}

func stockEvent(p *model.Product, m *model.StockMovement) map[string]interface{} {
	return map[string]interface{}{
		"product_id":          p.ID,
		"sku":                 p.SKU,
		"name":                p.Name,
		"quantity":            p.Quantity,
		"delta":               m.Quantity,
		"reason":              m.Reason,
		"low_stock":           p.IsLowStock(),
		"low_stock_threshold": p.LowStockThreshold,
	}
}

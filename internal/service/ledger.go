package service

import (
	"context"

	"shopflow/internal/apperr"
	"shopflow/internal/config"
	"shopflow/internal/model"
	"shopflow/internal/repository"
)

var (
	ErrZeroAdjustment    = apperr.Validation("Adjustment cannot be zero")
	ErrInsufficientStock = apperr.Validation("Insufficient stock")
)

// Ledger is the only writer of product quantities. Every change it makes is
// paired with exactly one movement row inside the caller's transaction.
type Ledger struct {
	policy string
}

func NewLedger(policy string) *Ledger {
	if policy != config.StockPolicyClamp {
		policy = config.StockPolicyReject
	}
	return &Ledger{policy: policy}
}

func (l *Ledger) Policy() string {
	return l.policy
}

// Apply changes product.Quantity by delta. product must have been read
// through tx with a row lock. Under the clamp policy the quantity floors at
// zero and the movement records the delta actually applied.
func (l *Ledger) Apply(ctx context.Context, tx repository.Store, product *model.Product, delta int, reason string, actor *uint, saleID *uint) (*model.StockMovement, error) {
	if delta == 0 {
		return nil, ErrZeroAdjustment
	}

	before := product.Quantity
	after := before + delta
	if after < 0 {
		if l.policy == config.StockPolicyReject {
			return nil, ErrInsufficientStock
		}
		after = 0
	}

	if err := tx.Products().UpdateQuantity(ctx, product.ID, after); err != nil {
		return nil, storeErr(err, "Product not found")
	}

	movement := &model.StockMovement{
		ProductID:      product.ID,
		UserID:         actor,
		SaleID:         saleID,
		Quantity:       after - before,
		Reason:         reason,
		QuantityBefore: before,
		QuantityAfter:  after,
	}
	if err := tx.Movements().Create(ctx, movement); err != nil {
		return nil, storeErr(err, "")
	}

	product.Quantity = after
	return movement, nil
}

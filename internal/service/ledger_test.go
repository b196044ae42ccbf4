package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/config"
	"shopflow/internal/model"
	"shopflow/internal/repository"
	"shopflow/internal/repository/memrepo"
)

func TestLedgerApply(t *testing.T) {
	ctx := context.Background()

	newProduct := func(t *testing.T, store *memrepo.Store, qty int) *model.Product {
		p := &model.Product{Name: "Widget", SKU: "WID-1"}
		require.NoError(t, store.Products().Create(ctx, p))
		require.NoError(t, store.Products().UpdateQuantity(ctx, p.ID, qty))
		p.Quantity = qty
		return p
	}

	t.Run("records before and after", func(t *testing.T) {
		store := memrepo.New()
		p := newProduct(t, store, 5)
		actor := uint(7)

		var m *model.StockMovement
		err := store.Transaction(ctx, func(tx repository.Store) error {
			var err error
			m, err = NewLedger(config.StockPolicyReject).Apply(ctx, tx, p, 3, model.ReasonManualAdjustment, &actor, nil)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 3, m.Quantity)
		assert.Equal(t, 5, m.QuantityBefore)
		assert.Equal(t, 8, m.QuantityAfter)
		assert.Equal(t, &actor, m.UserID)
		assert.Equal(t, 8, p.Quantity)
	})

	t.Run("zero delta rejected", func(t *testing.T) {
		store := memrepo.New()
		p := newProduct(t, store, 5)
		_, err := NewLedger(config.StockPolicyReject).Apply(ctx, store, p, 0, "", nil, nil)
		assert.ErrorIs(t, err, ErrZeroAdjustment)
	})

	t.Run("reject policy refuses to go negative", func(t *testing.T) {
		store := memrepo.New()
		p := newProduct(t, store, 2)
		_, err := NewLedger(config.StockPolicyReject).Apply(ctx, store, p, -3, model.ReasonSale, nil, nil)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, p.Quantity)
	})

	t.Run("clamp policy floors at zero", func(t *testing.T) {
		store := memrepo.New()
		p := newProduct(t, store, 2)
		m, err := NewLedger(config.StockPolicyClamp).Apply(ctx, store, p, -5, model.ReasonSale, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, -2, m.Quantity)
		assert.Equal(t, 0, m.QuantityAfter)
		assert.Equal(t, 0, p.Quantity)
	})

	t.Run("unknown policy falls back to reject", func(t *testing.T) {
		assert.Equal(t, config.StockPolicyReject, NewLedger("whatever").Policy())
	})
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/apperr"
	"shopflow/internal/model"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)
	categories := NewCategoryService(env.store, env.activity)

	cat, err := categories.Create(ctx, admin, CategoryInput{Name: " Boissons "})
	require.NoError(t, err)
	assert.Equal(t, "Boissons", cat.Name)
	assert.Equal(t, model.DefaultCategoryColor, cat.Color)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := categories.Create(ctx, admin, CategoryInput{Name: "Boissons"})
		assert.ErrorIs(t, err, ErrCategoryExists)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := categories.Create(ctx, admin, CategoryInput{Name: "Snacks", Color: "blue"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("in use", func(t *testing.T) {
		p, err := env.inventory.CreateProduct(ctx, admin, ProductInput{Name: "Bissap", SKU: "BIS-001", CategoryID: &cat.ID})
		require.NoError(t, err)
		require.NotNil(t, p.Category)
		assert.Equal(t, "Boissons", p.Category.Name)

		listed, err := categories.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, int64(1), listed[0].ProductCount)

		err = categories.Delete(ctx, admin, cat.ID)
		assert.ErrorIs(t, err, ErrCategoryInUse)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		require.NoError(t, env.inventory.DeleteProduct(ctx, admin, p.ID))
		require.NoError(t, categories.Delete(ctx, admin, cat.ID))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := categories.Update(ctx, admin, 999, CategoryInput{Name: "Ghost"})
		assert.ErrorIs(t, err, ErrCategoryMissing)
	})
}

func TestSupplierService(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)
	suppliers := NewSupplierService(env.store, env.activity)

	sup, err := suppliers.Create(ctx, admin, SupplierInput{Name: "Faso Distribution", Email: strPtr(" ventes@faso.bf ")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, sup.Status)
	assert.Equal(t, "ventes@faso.bf", *sup.Email)

	_, err = suppliers.Create(ctx, admin, SupplierInput{Name: "Faso Distribution"})
	assert.ErrorIs(t, err, ErrSupplierExists)

	_, err = suppliers.Create(ctx, admin, SupplierInput{Name: "Bad", Email: strPtr("not-an-email")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.inventory.CreateProduct(ctx, admin, ProductInput{Name: "Riz", SKU: "RIZ-001", Supplier: strPtr("Faso Distribution")})
	require.NoError(t, err)

	got, err := suppliers.Get(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ProductsCount)

	err = suppliers.Delete(ctx, admin, sup.ID)
	assert.ErrorIs(t, err, ErrSupplierInUse)

	assert.ErrorIs(t, suppliers.Delete(ctx, admin, 999), ErrSupplierNotFound)
}

func strPtr(s string) *string { return &s }

package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	t.Run("not found", func(t *testing.T) {
		err := translate(fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.Equal(t, "products_sku_key", Constraint(err))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23503", ConstraintName: "products_category_id_fkey"})
		assert.ErrorIs(t, err, ErrReferenced)
		assert.Equal(t, "products_category_id_fkey", Constraint(err))
	})

	t.Run("check violation", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23514", ConstraintName: "products_quantity_check"})
		assert.ErrorIs(t, err, ErrCheckFailed)
		assert.Equal(t, "products_quantity_check", Constraint(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		base := errors.New("connection reset")
		err := translate(base)
		assert.ErrorIs(t, err, base)
		assert.Empty(t, Constraint(err))
	})
}

package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowStock(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)

	t.Run("empty", func(t *testing.T) {
		report, err := env.alerts.LowStock(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Alerts)
		assert.Equal(t, "No low stock alerts", report.Message)
	})

	atThreshold := env.createProduct(t, "LOW-010", 10, 10)
	below := env.createProduct(t, "LOW-009", 9, 10)
	empty := env.createProduct(t, "LOW-000", 0, 10)
	env.createProduct(t, "OK-050", 50, 10)

	t.Run("strictly below threshold, lowest first", func(t *testing.T) {
		report, err := env.alerts.LowStock(ctx, nil)
		require.NoError(t, err)
		require.Len(t, report.Alerts, 2)
		assert.Equal(t, empty.ID, report.Alerts[0].ProductID)
		assert.Equal(t, below.ID, report.Alerts[1].ProductID)
		assert.Equal(t, 2, report.Total)
		assert.Equal(t, "You have 2 product(s) with low stock", report.Message)
		assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.LowStockProducts))
	})

	t.Run("recomputed after an adjustment", func(t *testing.T) {
		_, err := env.inventory.AdjustStock(ctx, admin, atThreshold.ID, -1, "")
		require.NoError(t, err)

		report, err := env.alerts.LowStock(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Total)
	})

	t.Run("filtered by product leaves the gauge alone", func(t *testing.T) {
		report, err := env.alerts.LowStock(ctx, &below.ID)
		require.NoError(t, err)
		require.Len(t, report.Alerts, 1)
		assert.Equal(t, "LOW-009", report.Alerts[0].SKU)
		assert.Equal(t, float64(3), testutil.ToFloat64(env.metrics.LowStockProducts))
	})
}

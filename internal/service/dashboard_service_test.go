package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)
	dashboard := NewDashboardService(env.store)

	_, err := env.users.EnsureAdmin(ctx, "Admin", "admin@shopflow.fr", "admin123")
	require.NoError(t, err)
	env.createProduct(t, "DSH-001", 2, 10)
	env.createProduct(t, "DSH-002", 20, 10)

	stats, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(22), stats.TotalQuantity)
	assert.Equal(t, int64(1), stats.LowStockAlerts)
	assert.Equal(t, money.Amount(22*1999), stats.InventoryValue)
	assert.NotEmpty(t, stats.InventoryValueDisplay)

	points, err := dashboard.StockMovement(ctx, 0)
	require.NoError(t, err)
	inbound := 0
	for _, p := range points {
		inbound += int(p.Inbound)
	}
	assert.Equal(t, 22, inbound)
}

func TestSalesSummary(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)
	dashboard := NewDashboardService(env.store)
	env.createProduct(t, "SUM-001", 10, 0)

	_, err := env.sales.Create(ctx, admin, SaleInput{
		Items:         []SaleItemInput{{SKU: "SUM-001", Quantity: 2, UnitPrice: 2500}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	summary, err := dashboard.SalesSummary(prefs.With(ctx, prefs.Preferences{Currency: money.EUR, Locale: money.LocaleEN}), "")
	require.NoError(t, err)
	assert.Equal(t, "7d", summary.Range)
	assert.Equal(t, int64(1), summary.SalesCount)
	assert.Equal(t, money.Amount(5000), summary.Revenue)
	assert.NotEmpty(t, summary.RevenueDisplay)

	_, err = dashboard.SalesSummary(ctx, "2y")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "range", ae.Field)
}

func TestInventoryWorkbook(t *testing.T) {
	ctx := context.Background()
	env := setupReject(t)
	reports := NewReportService(env.store)
	env.createProduct(t, "XLS-001", 1, 5)
	env.createProduct(t, "XLS-002", 50, 5)

	data, err := reports.InventoryWorkbook(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetProducts, SheetLowStock}, f.GetSheetList())

	rows, err := f.GetRows(SheetProducts)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "SKU", rows[0][1])

	low, err := f.GetRows(SheetLowStock)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "XLS-001", low[1][1])
	assert.Equal(t, "4", low[1][5])
}

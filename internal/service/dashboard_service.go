package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"shopflow/internal/apperr"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
	"shopflow/internal/repository"
)

const (
	DefaultMovementDays = 7
	MaxMovementDays     = 365
)

// SalesRanges maps the accepted range keys to their length.
var SalesRanges = map[string]func(time.Time) time.Time{
	"7d":  func(t time.Time) time.Time { return t.AddDate(0, 0, -7) },
	"1m":  func(t time.Time) time.Time { return t.AddDate(0, -1, 0) },
	"3m":  func(t time.Time) time.Time { return t.AddDate(0, -3, 0) },
	"6m":  func(t time.Time) time.Time { return t.AddDate(0, -6, 0) },
	"12m": func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) },
}

type DashboardStats struct {
	ActiveUsers           int64        `json:"active_users"`
	TotalProducts         int64        `json:"total_products"`
	TotalQuantity         int64        `json:"total_quantity"`
	LowStockAlerts        int64        `json:"low_stock_alerts"`
	InventoryValue        money.Amount `json:"inventory_value"`
	InventoryValueDisplay string       `json:"inventory_value_display"`
}

type SalesSummary struct {
	Range          string       `json:"range"`
	From           time.Time    `json:"from"`
	To             time.Time    `json:"to"`
	SalesCount     int64        `json:"sales_count"`
	Revenue        money.Amount `json:"revenue"`
	RevenueDisplay string       `json:"revenue_display"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	StockMovement(ctx context.Context, days int) ([]repository.DailyMovement, error)
	SalesSummary(ctx context.Context, rangeKey string) (*SalesSummary, error)
}

type dashboardService struct {
	store repository.Store
	now   func() time.Time
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store, now: time.Now}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		active int64
		stats  *repository.ProductStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.store.Users().CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.store.Products().Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err, "")
	}

	value := money.Amount(stats.TotalValuation)
	return &DashboardStats{
		ActiveUsers:           active,
		TotalProducts:         stats.TotalProducts,
		TotalQuantity:         stats.TotalQuantity,
		LowStockAlerts:        stats.LowStockCount,
		InventoryValue:        value,
		InventoryValueDisplay: prefs.From(ctx).Display().Format(value),
	}, nil
}

func (s *dashboardService) StockMovement(ctx context.Context, days int) ([]repository.DailyMovement, error) {
	if days <= 0 {
		days = DefaultMovementDays
	}
	if days > MaxMovementDays {
		days = MaxMovementDays
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)

	points, err := s.store.Movements().DailyTotals(ctx, start, end)
	if err != nil {
		return nil, storeErr(err, "")
	}
	if points == nil {
		points = []repository.DailyMovement{}
	}
	return points, nil
}

func (s *dashboardService) SalesSummary(ctx context.Context, rangeKey string) (*SalesSummary, error) {
	if rangeKey == "" {
		rangeKey = "7d"
	}
	startOf, ok := SalesRanges[rangeKey]
	if !ok {
		return nil, apperr.Validation("range must be one of 7d, 1m, 3m, 6m, 12m").WithField("range")
	}
	end := s.now()
	start := startOf(end)

	summary, err := s.store.Sales().Summary(ctx, start, end)
	if err != nil {
		return nil, storeErr(err, "")
	}
	revenue := money.Amount(summary.Revenue)
	return &SalesSummary{
		Range:          rangeKey,
		From:           start,
		To:             end,
		SalesCount:     summary.Count,
		Revenue:        revenue,
		RevenueDisplay: prefs.From(ctx).Display().Format(revenue),
	}, nil
}

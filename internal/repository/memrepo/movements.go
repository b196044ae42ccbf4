package memrepo

import (
	"context"
	"sort"
	"time"

	"shopflow/internal/model"
	"shopflow/internal/repository"
)

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	release, err := r.s.begin("movements.create")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	if _, ok := d.products[movement.ProductID]; !ok {
		return referenced("stock_movements_product_id_fkey")
	}
	movement.ID = d.next("stock_movements")
	movement.CreatedAt = r.s.st.now()
	stored := *movement
	stored.Product, stored.User = nil, nil
	d.movements = append(d.movements, stored)
	return nil
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID uint, limit int) ([]model.StockMovement, error) {
	return r.List(ctx, repository.MovementFilter{ProductID: &productID, Limit: limit})
}

func (r *movementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]model.StockMovement, error) {
	release, err := r.s.begin("movements.list")
	if err != nil {
		return nil, err
	}
	defer release()

	d := r.s.st.data
	movements := []model.StockMovement{}
	for _, m := range d.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if p, ok := d.products[m.ProductID]; ok {
			m.Product = &p
		}
		if m.UserID != nil {
			if u, ok := d.users[*m.UserID]; ok {
				m.User = &u
			}
		}
		movements = append(movements, m)
	}
	sort.Slice(movements, func(i, j int) bool {
		if !movements[i].CreatedAt.Equal(movements[j].CreatedAt) {
			return movements[i].CreatedAt.After(movements[j].CreatedAt)
		}
		return movements[i].ID > movements[j].ID
	})
	if filter.Limit > 0 && len(movements) > filter.Limit {
		movements = movements[:filter.Limit]
	}
	return movements, nil
}

func (r *movementRepo) DailyTotals(ctx context.Context, start, end time.Time) ([]repository.DailyMovement, error) {
	release, err := r.s.begin("movements.daily_totals")
	if err != nil {
		return nil, err
	}
	defer release()

	byDay := map[string]*repository.DailyMovement{}
	for _, m := range r.s.st.data.movements {
		if m.CreatedAt.Before(start) || m.CreatedAt.After(end) {
			continue
		}
		day := m.CreatedAt.UTC().Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &repository.DailyMovement{Date: day}
			byDay[day] = point
		}
		if m.Quantity > 0 {
			point.Inbound += m.Quantity
		} else {
			point.Outbound -= m.Quantity
		}
	}

	results := make([]repository.DailyMovement, 0, len(byDay))
	for _, point := range byDay {
		results = append(results, *point)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

package memrepo

import (
	"context"
	"sort"
	"time"

	"shopflow/internal/model"
	"shopflow/internal/repository"
)

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	release, err := r.s.begin("sales.create")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	now := r.s.st.now()
	sale.ID = d.next("sales")
	sale.CreatedAt, sale.UpdatedAt = now, now
	if sale.PaymentStatus == "" {
		sale.PaymentStatus = model.PaymentCompleted
	}
	stored := *sale
	stored.User = nil
	d.sales = append(d.sales, stored)
	return nil
}

func (r *saleRepo) List(ctx context.Context, limit int) ([]model.Sale, error) {
	release, err := r.s.begin("sales.list")
	if err != nil {
		return nil, err
	}
	defer release()

	sales := append([]model.Sale{}, r.s.st.data.sales...)
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].CreatedAt.After(sales[j].CreatedAt)
		}
		return sales[i].ID > sales[j].ID
	})
	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}

func (r *saleRepo) Summary(ctx context.Context, start, end time.Time) (*repository.SalesSummary, error) {
	release, err := r.s.begin("sales.summary")
	if err != nil {
		return nil, err
	}
	defer release()

	var summary repository.SalesSummary
	for _, sale := range r.s.st.data.sales {
		if sale.CreatedAt.Before(start) || sale.CreatedAt.After(end) {
			continue
		}
		summary.Count++
		summary.Revenue += sale.TotalAmount
	}
	return &summary, nil
}

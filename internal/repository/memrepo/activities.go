package memrepo

import (
	"context"
	"sort"

	"shopflow/internal/model"
)

type activityRepo struct{ s *Store }

func (r *activityRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	release, err := r.s.begin("activities.create")
	if err != nil {
		return err
	}
	defer release()

	d := r.s.st.data
	entry.ID = d.next("activity_logs")
	entry.CreatedAt = r.s.st.now()
	stored := *entry
	stored.User = nil
	d.activities = append(d.activities, stored)
	return nil
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	release, err := r.s.begin("activities.list")
	if err != nil {
		return nil, err
	}
	defer release()

	d := r.s.st.data
	entries := make([]model.ActivityLog, 0, len(d.activities))
	for _, a := range d.activities {
		if a.UserID != nil {
			if u, ok := d.users[*a.UserID]; ok {
				a.User = &u
			}
		}
		entries = append(entries, a)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

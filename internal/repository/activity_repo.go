package repository

import (
	"context"

	"gorm.io/gorm"

	"shopflow/internal/model"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(entry).Error)
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, translate(err)
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopflow/internal/model"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Put(ctx context.Context, setting *model.Setting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &setting, nil
}

func (r *settingRepo) Put(ctx context.Context, setting *model.Setting) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error)
}

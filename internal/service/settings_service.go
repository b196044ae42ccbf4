package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/repository"
)

type SettingsService interface {
	General(ctx context.Context) (*model.GeneralSettings, error)
	SaveGeneral(ctx context.Context, actor Actor, in model.GeneralSettings) (*model.GeneralSettings, error)
	Theme(ctx context.Context) (*model.ThemeSettings, error)
	SaveTheme(ctx context.Context, actor Actor, in model.ThemeSettings) (*model.ThemeSettings, error)
}

type settingsService struct {
	store    repository.Store
	activity ActivityService
}

func NewSettingsService(store repository.Store, activity ActivityService) SettingsService {
	return &settingsService{store: store, activity: activity}
}

// load decodes the stored document for key over out, which holds the defaults.
func (s *settingsService) load(ctx context.Context, key string, out interface{}) error {
	setting, err := s.store.Settings().Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeErr(err, "")
	}
	if err := json.Unmarshal(setting.Value, out); err != nil {
		return apperr.Internal(errInternal, err)
	}
	return nil
}

func (s *settingsService) save(ctx context.Context, actor Actor, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperr.Internal(errInternal, err)
	}
	if err := s.store.Settings().Put(ctx, &model.Setting{Key: key, Value: datatypes.JSON(raw)}); err != nil {
		return storeErr(err, "")
	}
	s.activity.Record(ctx, newActivity(actor, model.ActionSettingsUpdate,
		"Settings '"+key+"' updated", "", 0, map[string]interface{}{"key": key}))
	return nil
}

func (s *settingsService) General(ctx context.Context) (*model.GeneralSettings, error) {
	settings := model.DefaultGeneralSettings
	if err := s.load(ctx, model.SettingGeneral, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) SaveGeneral(ctx context.Context, actor Actor, in model.GeneralSettings) (*model.GeneralSettings, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyEmail = strings.ToLower(strings.TrimSpace(in.CompanyEmail))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, actor, model.SettingGeneral, in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *settingsService) Theme(ctx context.Context) (*model.ThemeSettings, error) {
	settings := model.DefaultThemeSettings
	if err := s.load(ctx, model.SettingTheme, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) SaveTheme(ctx context.Context, actor Actor, in model.ThemeSettings) (*model.ThemeSettings, error) {
	in.Theme = strings.ToLower(strings.TrimSpace(in.Theme))
	in.AccentColor = strings.TrimSpace(in.AccentColor)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, actor, model.SettingTheme, in); err != nil {
		return nil, err
	}
	return &in, nil
}

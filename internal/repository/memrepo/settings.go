package memrepo

import (
	"context"

	"shopflow/internal/model"
)

type settingRepo struct{ s *Store }

func (r *settingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	release, err := r.s.begin("settings.get")
	if err != nil {
		return nil, err
	}
	defer release()

	setting, ok := r.s.st.data.settings[key]
	if !ok {
		return nil, notFound()
	}
	return &setting, nil
}

func (r *settingRepo) Put(ctx context.Context, setting *model.Setting) error {
	release, err := r.s.begin("settings.put")
	if err != nil {
		return err
	}
	defer release()

	setting.UpdatedAt = r.s.st.now()
	r.s.st.data.settings[setting.Key] = *setting
	return nil
}

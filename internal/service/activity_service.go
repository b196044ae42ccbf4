package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"shopflow/internal/model"
	"shopflow/internal/repository"
)

const DefaultActivityLimit = 10

type ActivityService interface {
	// Record appends an entry. Failures are logged and never reach the caller.
	Record(ctx context.Context, entry *model.ActivityLog)
	Recent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewActivityService(store repository.Store, log logrus.FieldLogger) ActivityService {
	return &activityService{store: store, log: log}
}

func (s *activityService) Record(ctx context.Context, entry *model.ActivityLog) {
	if err := s.store.Activities().Create(ctx, entry); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action": entry.ActionType,
		}).Warn("failed to record activity")
	}
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > 100 {
		limit = 100
	}
	entries, err := s.store.Activities().ListRecent(ctx, limit)
	return entries, storeErr(err, "")
}

// entity builds the optional entity reference of an activity entry.
func entity(kind string, id uint) (*string, *uint) {
	return &kind, &id
}

func newActivity(actor Actor, action, description, kind string, id uint, meta map[string]interface{}) *model.ActivityLog {
	entry := &model.ActivityLog{
		UserID:      actor.UserID(),
		ActionType:  action,
		Description: description,
		Metadata:    meta,
	}
	if kind != "" {
		entry.EntityType, entry.EntityID = entity(kind, id)
	}
	return entry
}

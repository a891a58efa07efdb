package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// ActivityStore persists daily activity snapshots in Postgres, one per user
// and calendar date.
type ActivityStore struct {
	db *gorm.DB
}

// NewActivityStore creates an activity store backed by the given database.
func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// FindByDate returns nil without error when the day has no snapshot; a
// missing row just means no recorded activity.
func (s *ActivityStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*domain.ActivitySnapshot, error) {
	day := domain.DayOf(date)

	var snap domain.ActivitySnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *ActivityStore) Upsert(ctx context.Context, snapshot *domain.ActivitySnapshot) error {
	if snapshot.ID != 0 {
		return s.db.WithContext(ctx).Save(snapshot).Error
	}

	snapshot.Date = domain.DayOf(snapshot.Date)
	var existing domain.ActivitySnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", snapshot.UserID, snapshot.Date).
		First(&existing).Error
	switch {
	case err == nil:
		snapshot.ID = existing.ID
		return s.db.WithContext(ctx).Save(snapshot).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.WithContext(ctx).Create(snapshot).Error
	default:
		return err
	}
}

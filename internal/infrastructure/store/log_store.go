package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// LogStore persists day logs and their food entries in Postgres.
type LogStore struct {
	db *gorm.DB
}

// NewLogStore creates a log store backed by the given database.
func NewLogStore(db *gorm.DB) *LogStore {
	return &LogStore{db: db}
}

// Create inserts a new day log. The (user, date) unique index makes this
// fail when two requests open the same day at once; callers recover by
// re-reading the winner.
func (s *LogStore) Create(ctx context.Context, log *domain.DayLog) error {
	return s.db.WithContext(ctx).Omit("Entries").Create(log).Error
}

func (s *LogStore) Update(ctx context.Context, log *domain.DayLog) error {
	return s.db.WithContext(ctx).Omit("Entries").Save(log).Error
}

func (s *LogStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*domain.DayLog, error) {
	day := domain.DayOf(date)

	var log domain.DayLog
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp, id")
		}).
		Where("user_id = ? AND date = ?", userID, day).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLogNotFound, day.Format("2006-01-02"))
		}
		return nil, err
	}
	return &log, nil
}

// FindByID returns one day log scoped to its owner, without entries. It
// exists so callers holding an entry can find its calendar date.
func (s *LogStore) FindByID(ctx context.Context, userID, id uint) (*domain.DayLog, error) {
	var log domain.DayLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrLogNotFound, id)
		}
		return nil, err
	}
	return &log, nil
}

func (s *LogStore) AddEntry(ctx context.Context, entry *domain.FoodEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *LogStore) UpdateEntry(ctx context.Context, entry *domain.FoodEntry) error {
	return s.db.WithContext(ctx).Save(entry).Error
}

func (s *LogStore) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&domain.FoodEntry{}, entry.ID).Error
}

// GetEntry loads an entry and checks, through its log, that it belongs to
// the user. Entries carry no user column of their own.
func (s *LogStore) GetEntry(ctx context.Context, userID, entryID uint) (*domain.FoodEntry, error) {
	var entry domain.FoodEntry
	err := s.db.WithContext(ctx).
		Joins("JOIN day_logs ON day_logs.id = food_entries.log_id").
		Where("food_entries.id = ? AND day_logs.user_id = ?", entryID, userID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrEntryNotFound, entryID)
		}
		return nil, err
	}
	return &entry, nil
}

package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// DeviceActivity is one day of figures reported by a health integration.
type DeviceActivity struct {
	Steps           int     `json:"steps"`
	ActiveCalories  float64 `json:"activeCalories"`
	WorkoutCalories float64 `json:"workoutCalories"`
	TotalCalories   float64 `json:"totalCalories"`
	ExerciseMinutes int     `json:"exerciseMinutes"`
	Authorized      bool    `json:"authorized"`
}

// ActivityService keeps the per-day exercise snapshots that feed the sugar
// and salt bonus. Device syncs replace the device-reported figures; the
// manual earned-calories value is user state and survives every sync.
type ActivityService struct {
	activity domain.ActivityStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewActivityService creates an activity service.
func NewActivityService(activity domain.ActivityStore, logger zerolog.Logger) *ActivityService {
	return &ActivityService{
		activity: activity,
		logger:   logger.With().Str("component", "activity_service").Logger(),
		now:      time.Now,
	}
}

// Sync stores the device figures for a day, overwriting previous ones.
func (s *ActivityService) Sync(ctx context.Context, userID uint, date time.Time, report DeviceActivity) (*domain.ActivitySnapshot, error) {
	if report.Steps < 0 || report.ExerciseMinutes < 0 {
		return nil, fmt.Errorf("%w: negative activity figures", domain.ErrValidation)
	}
	for _, v := range []float64{report.ActiveCalories, report.WorkoutCalories, report.TotalCalories} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: invalid calorie figure", domain.ErrValidation)
		}
	}

	snap, err := s.snapshotFor(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	snap.Steps = report.Steps
	snap.ActiveCalories = report.ActiveCalories
	snap.WorkoutCalories = report.WorkoutCalories
	snap.TotalCalories = report.TotalCalories
	snap.ExerciseMinutes = report.ExerciseMinutes
	snap.Authorized = report.Authorized

	if err := s.activity.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Uint("user", userID).
		Time("date", snap.Date).
		Int("steps", snap.Steps).
		Msg("activity synced")
	return snap, nil
}

// Get returns the snapshot for a day, or an empty one when nothing was
// recorded.
func (s *ActivityService) Get(ctx context.Context, userID uint, date time.Time) (*domain.ActivitySnapshot, error) {
	snap, err := s.activity.FindByDate(ctx, userID, domain.DayOf(date))
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return &domain.ActivitySnapshot{UserID: userID, Date: domain.DayOf(date)}, nil
	}
	return snap, nil
}

// SetManualEarned records user-entered earned calories for a day. The value
// replaces any previous manual value and is added on top of whatever the
// bonus mode derives from device figures.
func (s *ActivityService) SetManualEarned(ctx context.Context, userID uint, date time.Time, calories float64) (*domain.ActivitySnapshot, error) {
	if calories < 0 || math.IsNaN(calories) || math.IsInf(calories, 0) {
		return nil, fmt.Errorf("%w: earned calories must be zero or positive", domain.ErrValidation)
	}
	snap, err := s.snapshotFor(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	snap.ManualEarnedCalories = calories
	if err := s.activity.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ClearManualEarned removes the manual earned calories for a day.
func (s *ActivityService) ClearManualEarned(ctx context.Context, userID uint, date time.Time) (*domain.ActivitySnapshot, error) {
	return s.SetManualEarned(ctx, userID, date, 0)
}

func (s *ActivityService) snapshotFor(ctx context.Context, userID uint, date time.Time) (*domain.ActivitySnapshot, error) {
	day := domain.DayOf(date)
	snap, err := s.activity.FindByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &domain.ActivitySnapshot{UserID: userID, Date: day}
	}
	return snap, nil
}

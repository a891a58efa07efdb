package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// LogServiceConfig holds configuration for the day-log service.
type LogServiceConfig struct {
	Rollup RollupOptions
	Bonus  BonusFactors
}

// LogService owns day-log lifecycle and aggregation: opening logs with a
// target snapshot, lazily resyncing targets, day summaries, the
// micronutrient dashboard and the AI analysis override.
type LogService struct {
	logs     domain.LogStore
	users    domain.UserStore
	products domain.ProductStore
	activity domain.ActivityStore
	catalog  *domain.Catalog
	rollup   *Rollup
	bonus    BonusFactors
	logger   zerolog.Logger
	now      func() time.Time
}

// NewLogService creates a day-log service with dependencies.
func NewLogService(
	logs domain.LogStore,
	users domain.UserStore,
	products domain.ProductStore,
	activity domain.ActivityStore,
	catalog *domain.Catalog,
	config LogServiceConfig,
	logger zerolog.Logger,
) *LogService {
	bonus := config.Bonus
	if bonus.SugarGramsPerKcal == 0 && bonus.SodiumMgPerKcal == 0 {
		bonus = DefaultBonusFactors()
	}
	return &LogService{
		logs:     logs,
		users:    users,
		products: products,
		activity: activity,
		catalog:  catalog,
		rollup:   NewRollup(catalog, config.Rollup),
		bonus:    bonus,
		logger:   logger.With().Str("component", "log_service").Logger(),
		now:      time.Now,
	}
}

// EnsureLog returns the day log for date, creating it on first access with
// a snapshot of the user's current targets. Logs for today or future dates
// are lazily resynced when targets changed since the snapshot; historical
// logs keep the targets they were closed with.
func (s *LogService) EnsureLog(ctx context.Context, userID uint, date time.Time) (*domain.DayLog, error) {
	day := domain.DayOf(date)

	log, err := s.logs.FindByDate(ctx, userID, day)
	switch {
	case errors.Is(err, domain.ErrLogNotFound):
		return s.openLog(ctx, userID, day)
	case err != nil:
		return nil, err
	}

	if day.Before(domain.DayOf(s.now())) {
		return log, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if syncTargets(log, user) {
		if err := s.logs.Update(ctx, log); err != nil {
			return nil, err
		}
		s.logger.Debug().Uint("user", userID).Time("date", day).Msg("resynced day log targets")
	}
	return log, nil
}

func (s *LogService) openLog(ctx context.Context, userID uint, day time.Time) (*domain.DayLog, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := &domain.DayLog{UserID: userID, Date: day}
	syncTargets(log, user)
	if err := s.logs.Create(ctx, log); err != nil {
		// Lost a create race against a concurrent first access; the
		// winner's row is the log.
		if existing, ferr := s.logs.FindByDate(ctx, userID, day); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return log, nil
}

// syncTargets copies the user's current targets onto the log and reports
// whether anything changed.
func syncTargets(log *domain.DayLog, user *domain.User) bool {
	changed := log.CalorieTarget != user.CalorieTarget ||
		log.ProteinTarget != user.ProteinTarget ||
		log.CarbTarget != user.CarbTarget ||
		log.FatTarget != user.FatTarget ||
		log.SugarLimit != user.SugarLimit ||
		log.SodiumLimit != user.SodiumLimit
	if changed {
		log.CalorieTarget = user.CalorieTarget
		log.ProteinTarget = user.ProteinTarget
		log.CarbTarget = user.CarbTarget
		log.FatTarget = user.FatTarget
		log.SugarLimit = user.SugarLimit
		log.SodiumLimit = user.SodiumLimit
	}
	return changed
}

// LogByID returns one day log by row ID, scoped to its owner. Entries are
// not loaded; callers holding an entry use this to find its calendar date.
func (s *LogService) LogByID(ctx context.Context, userID, logID uint) (*domain.DayLog, error) {
	return s.logs.FindByID(ctx, userID, logID)
}

// Summary aggregates one day: macro totals, progress against the snapshotted
// targets and the exercise-adjusted limit status for sugar and sodium.
func (s *LogService) Summary(ctx context.Context, userID uint, date time.Time) (*DaySummary, error) {
	log, err := s.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity, err := s.activity.FindByDate(ctx, userID, log.Date)
	if err != nil {
		return nil, err
	}

	earned := EarnedCalories(user.BonusMode, activity)
	totals := Totals(log.Entries)
	sugarLimit := AdjustLimit(log.SugarLimit, earned, s.bonus.SugarGramsPerKcal)
	sodiumLimit := AdjustLimit(log.SodiumLimit, earned, s.bonus.SodiumMgPerKcal)

	return &DaySummary{
		Date:            log.Date,
		Totals:          totals,
		CalorieProgress: Progress{Total: totals.Calories, Target: log.CalorieTarget, Ratio: ProgressRatio(totals.Calories, log.CalorieTarget)},
		ProteinProgress: Progress{Total: totals.Protein, Target: log.ProteinTarget, Ratio: ProgressRatio(totals.Protein, log.ProteinTarget)},
		CarbProgress:    Progress{Total: totals.Carbohydrates, Target: log.CarbTarget, Ratio: ProgressRatio(totals.Carbohydrates, log.CarbTarget)},
		FatProgress:     Progress{Total: totals.Fat, Target: log.FatTarget, Ratio: ProgressRatio(totals.Fat, log.FatTarget)},
		Sugar:           LimitStatus{Total: totals.AddedSugar, Adjusted: sugarLimit, OverLimit: totals.AddedSugar > sugarLimit.Limit},
		Sodium:          LimitStatus{Total: totals.Sodium, Adjusted: sodiumLimit, OverLimit: totals.Sodium > sodiumLimit.Limit},
		SaltGrams:       SaltGrams(totals.Sodium),
		BonusMode:       user.BonusMode,
		EarnedCalories:  earned,
		EntryCount:      len(log.Entries),
		AnalysisApplied: log.AnalysisApplied(),
	}, nil
}

// NutrientBreakdown returns the micronutrient dashboard for one day.
func (s *LogService) NutrientBreakdown(ctx context.Context, userID uint, date time.Time) ([]NutrientStatus, error) {
	log, err := s.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	products, err := s.entryProducts(ctx, userID, log)
	if err != nil {
		return nil, err
	}
	return s.rollup.NutrientBreakdown(log, products), nil
}

// entryProducts loads the products the log's entries still reference.
// Entries whose product is gone are simply not in the map; they contribute
// nothing to micronutrient sums.
func (s *LogService) entryProducts(ctx context.Context, userID uint, log *domain.DayLog) (map[uint]*domain.Product, error) {
	if log.AnalysisApplied() {
		return nil, nil
	}
	ids := make([]uint, 0, len(log.Entries))
	seen := make(map[uint]bool, len(log.Entries))
	for i := range log.Entries {
		if pid := log.Entries[i].ProductID; pid != nil && !seen[*pid] {
			seen[*pid] = true
			ids = append(ids, *pid)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	products, err := s.products.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading entry products: %w", err)
	}
	out := make(map[uint]*domain.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

// SetAnalysis stores a whole-day AI micronutrient override. While set, it
// wins over per-product summation on the dashboard.
func (s *LogService) SetAnalysis(ctx context.Context, userID uint, date time.Time, record domain.NutrientRecord, analyzedAt time.Time) (*domain.DayLog, error) {
	log, err := s.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	log.MicroOverrides = record.Clone()
	at := analyzedAt
	log.AnalysisDate = &at
	if err := s.logs.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// ResetAnalysis clears the override so the dashboard falls back to
// per-product summation.
func (s *LogService) ResetAnalysis(ctx context.Context, userID uint, date time.Time) (*domain.DayLog, error) {
	log, err := s.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	log.MicroOverrides = nil
	log.AnalysisDate = nil
	if err := s.logs.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// EntryService persists food entries against day logs. Entry values are
// computed by the pure constructors in entry.go; this service only decides
// which log an entry lands on and writes it through the store.
type EntryService struct {
	logs     domain.LogStore
	products domain.ProductStore
	logSvc   *LogService
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEntryService creates an entry service with dependencies.
func NewEntryService(logs domain.LogStore, products domain.ProductStore, logSvc *LogService, logger zerolog.Logger) *EntryService {
	return &EntryService{
		logs:     logs,
		products: products,
		logSvc:   logSvc,
		logger:   logger.With().Str("component", "entry_service").Logger(),
		now:      time.Now,
	}
}

// AddFromProduct logs amount units of a stored product onto the given date.
func (s *EntryService) AddFromProduct(ctx context.Context, userID uint, date time.Time, productID uint, amount float64, unit domain.Unit) (*domain.FoodEntry, error) {
	product, err := s.products.GetByID(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	entry, err := NewEntryFromProduct(product, amount, unit, s.now())
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, userID, date, entry)
}

// Add validates and persists a prepared entry onto the date's day log,
// opening the log if needed.
func (s *EntryService) Add(ctx context.Context, userID uint, date time.Time, entry *domain.FoodEntry) (*domain.FoodEntry, error) {
	if entry.Amount <= 0 || math.IsNaN(entry.Amount) || math.IsInf(entry.Amount, 0) {
		return nil, domain.ErrInvalidAmount
	}
	if !entry.Unit.Valid() {
		return nil, fmt.Errorf("%w: unit %q is not supported", domain.ErrValidation, entry.Unit)
	}
	if entry.ProductID == nil && entry.CustomFoodName == "" {
		return nil, fmt.Errorf("%w: entry needs a product or a food name", domain.ErrValidation)
	}
	log, err := s.logSvc.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	entry.LogID = log.ID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if err := s.logs.AddEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Adjust applies a stepper delta to a stored entry and persists the result.
// An unusable delta leaves the stored entry untouched.
func (s *EntryService) Adjust(ctx context.Context, userID, entryID uint, delta float64) (*domain.FoodEntry, error) {
	entry, err := s.logs.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if err := AdjustAmount(entry, delta); err != nil {
		s.logger.Warn().Uint("entry", entryID).Float64("delta", delta).Msg("rejected amount adjustment")
		return nil, err
	}
	if err := s.logs.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SetAmount moves a stored entry to an absolute amount and persists the
// result. Invalid amounts are a no-op on stored state.
func (s *EntryService) SetAmount(ctx context.Context, userID, entryID uint, amount float64) (*domain.FoodEntry, error) {
	entry, err := s.logs.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if err := SetAmount(entry, amount); err != nil {
		s.logger.Warn().Uint("entry", entryID).Float64("amount", amount).Msg("rejected amount set")
		return nil, err
	}
	if err := s.logs.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry. The day log itself stays, even when empty.
func (s *EntryService) Delete(ctx context.Context, userID, entryID uint) error {
	return s.logs.DeleteEntry(ctx, userID, entryID)
}

// Get returns one entry, scoped to its owner.
func (s *EntryService) Get(ctx context.Context, userID, entryID uint) (*domain.FoodEntry, error) {
	return s.logs.GetEntry(ctx, userID, entryID)
}

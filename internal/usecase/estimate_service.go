package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// EstimateService runs the AI-backed flows: free-text quick add with
// template reuse, nutrition-label scanning and the whole-day micronutrient
// analysis. Estimator failures surface unchanged; retrying is the caller's
// decision, and nothing is persisted on a failed call.
type EstimateService struct {
	estimator domain.Estimator
	templates domain.TemplateStore
	products  domain.ProductStore
	entries   *EntryService
	logSvc    *LogService
	catalog   *domain.Catalog
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEstimateService creates an estimate service with dependencies.
func NewEstimateService(
	estimator domain.Estimator,
	templates domain.TemplateStore,
	products domain.ProductStore,
	entries *EntryService,
	logSvc *LogService,
	catalog *domain.Catalog,
	logger zerolog.Logger,
) *EstimateService {
	return &EstimateService{
		estimator: estimator,
		templates: templates,
		products:  products,
		entries:   entries,
		logSvc:    logSvc,
		catalog:   catalog,
		logger:    logger.With().Str("component", "estimate_service").Logger(),
		now:       time.Now,
	}
}

// QuickAdd logs a food described in free text.
// Flow: normalized template lookup -> on miss, estimator -> snapshot as
// template -> entry onto the date's log. The returned flag reports whether
// a cached template served the request.
func (s *EstimateService) QuickAdd(ctx context.Context, userID uint, date time.Time, description string, amount float64) (*domain.FoodEntry, bool, error) {
	if domain.NormalizeFoodName(description) == "" {
		return nil, false, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	entry, fromTemplate, err := s.entryForDescription(ctx, userID, description, amount)
	if err != nil {
		return nil, false, err
	}
	saved, err := s.entries.Add(ctx, userID, date, entry)
	if err != nil {
		return nil, false, err
	}
	return saved, fromTemplate, nil
}

func (s *EstimateService) entryForDescription(ctx context.Context, userID uint, description string, amount float64) (*domain.FoodEntry, bool, error) {
	normalized := domain.NormalizeFoodName(description)

	tpl, err := s.templates.Find(ctx, userID, normalized)
	switch {
	case err == nil:
		entry, err := NewEntryFromTemplate(tpl, amount, s.now())
		if err != nil {
			return nil, false, err
		}
		s.touchTemplate(ctx, tpl)
		return entry, true, nil
	case !errors.Is(err, domain.ErrTemplateNotFound):
		return nil, false, err
	}

	est, err := s.estimator.DescribeFood(ctx, description)
	if err != nil {
		return nil, false, err
	}
	entry, err := NewEntryFromEstimate(est, description, s.now())
	if err != nil {
		return nil, false, err
	}
	if amount > 0 && amount != entry.Amount {
		if err := SetAmount(entry, amount); err != nil {
			return nil, false, err
		}
	}
	s.saveTemplate(ctx, userID, est, description)
	return entry, false, nil
}

// touchTemplate bumps LastUsed. Failures only log: reuse bookkeeping must
// never block a quick add.
func (s *EstimateService) touchTemplate(ctx context.Context, tpl *domain.FoodTemplate) {
	tpl.LastUsed = s.now()
	if err := s.templates.Upsert(ctx, tpl); err != nil {
		s.logger.Warn().Err(err).Uint("template", tpl.ID).Msg("failed to touch template")
	}
}

// saveTemplate snapshots a fresh estimate for reuse. Best effort, same as
// touchTemplate.
func (s *EstimateService) saveTemplate(ctx context.Context, userID uint, est *domain.FoodEstimate, prompt string) {
	tpl, err := TemplateFromEstimate(userID, est, prompt, s.catalog, s.now())
	if err != nil {
		s.logger.Warn().Err(err).Msg("estimate not cacheable as template")
		return
	}
	if err := s.templates.Upsert(ctx, tpl); err != nil {
		s.logger.Warn().Err(err).Str("name", tpl.NormalizedName).Msg("failed to save template")
	}
}

// ScanLabel reads a nutrition label photo into a draft product. The draft
// is not persisted; the client confirms it through the product API.
func (s *EstimateService) ScanLabel(ctx context.Context, userID uint, imageBase64, mediaType string) (*domain.Product, error) {
	scan, err := s.estimator.ParseLabel(ctx, imageBase64, mediaType)
	if err != nil {
		return nil, err
	}
	return ProductFromLabelScan(userID, scan, s.catalog, s.now())
}

// AnalyzeDay asks the estimator for a whole-day micronutrient estimate and
// stores it as the day's override. The override wins on the dashboard until
// reset.
func (s *EstimateService) AnalyzeDay(ctx context.Context, userID uint, date time.Time) (*domain.DayLog, error) {
	log, err := s.logSvc.EnsureLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if len(log.Entries) == 0 {
		return nil, fmt.Errorf("%w: nothing logged on this day", domain.ErrValidation)
	}

	summaries, err := s.entrySummaries(ctx, userID, log)
	if err != nil {
		return nil, err
	}
	analysis, err := s.estimator.AnalyzeDay(ctx, log.Date, summaries)
	if err != nil {
		return nil, err
	}
	record, dropped, err := OverrideFromAnalysis(analysis, s.catalog)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		s.logger.Debug().Strs("keys", dropped).Msg("analysis contained unknown nutrient keys")
	}
	return s.logSvc.SetAnalysis(ctx, userID, date, record, s.now())
}

// entrySummaries names each entry for the analyzer, preferring the frozen
// custom name and falling back to the product's current name.
func (s *EstimateService) entrySummaries(ctx context.Context, userID uint, log *domain.DayLog) ([]domain.EntrySummary, error) {
	productNames := make(map[uint]string)
	for i := range log.Entries {
		e := &log.Entries[i]
		if e.CustomFoodName == "" && e.ProductID != nil {
			productNames[*e.ProductID] = ""
		}
	}
	if len(productNames) > 0 {
		ids := make([]uint, 0, len(productNames))
		for id := range productNames {
			ids = append(ids, id)
		}
		products, err := s.products.GetByIDs(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			productNames[products[i].ID] = products[i].Name
		}
	}

	summaries := make([]domain.EntrySummary, 0, len(log.Entries))
	for i := range log.Entries {
		e := &log.Entries[i]
		name := e.CustomFoodName
		if name == "" && e.ProductID != nil {
			name = productNames[*e.ProductID]
		}
		if name == "" {
			name = "unnamed food"
		}
		summaries = append(summaries, domain.EntrySummary{
			Name:     name,
			Amount:   e.Amount,
			Unit:     e.Unit,
			Calories: e.Calories,
		})
	}
	return summaries, nil
}

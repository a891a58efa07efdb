package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// ConflictPolicy is the user's decision for a duplicate barcode. The
// default surfaces the conflict; the other values relay an explicit choice.
type ConflictPolicy string

const (
	// ConflictReject surfaces a DuplicateBarcodeError for the client to
	// resolve.
	ConflictReject ConflictPolicy = ""
	// ConflictUpdate overwrites the existing product in place.
	ConflictUpdate ConflictPolicy = "update"
	// ConflictNew saves a separate product without the barcode, keeping
	// barcode uniqueness intact.
	ConflictNew ConflictPolicy = "new"
)

// ProductServiceConfig holds configuration for the product service.
type ProductServiceConfig struct {
	LookupCacheTTL time.Duration
	SearchLimit    int
}

// ProductService owns product CRUD, barcode resolution and search.
// Barcode resolution is local-first: the user's own products win, then the
// shared lookup cache, then the external food database.
type ProductService struct {
	products domain.ProductStore
	lookup   domain.ProductLookup
	cache    domain.CacheRepository
	ranker   *SearchRanker
	prep     *QueryPreprocessor
	cacheTTL time.Duration
	searchN  int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewProductService creates a product service with dependencies.
func NewProductService(
	products domain.ProductStore,
	lookup domain.ProductLookup,
	cache domain.CacheRepository,
	config ProductServiceConfig,
	logger zerolog.Logger,
) *ProductService {
	cacheTTL := config.LookupCacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // barcode data is stable, keep it a month
	}
	searchN := config.SearchLimit
	if searchN == 0 {
		searchN = 25
	}
	return &ProductService{
		products: products,
		lookup:   lookup,
		cache:    cache,
		ranker:   NewSearchRanker(),
		prep:     NewQueryPreprocessor(),
		cacheTTL: cacheTTL,
		searchN:  searchN,
		logger:   logger.With().Str("component", "product_service").Logger(),
		now:      time.Now,
	}
}

// Create validates and saves a product. A barcode already attached to
// another of the user's products is never silently resolved: with
// ConflictReject the collision comes back as a DuplicateBarcodeError
// carrying the existing product, and the client relays the user's choice
// through policy.
func (s *ProductService) Create(ctx context.Context, userID uint, product *domain.Product, policy ConflictPolicy) (*domain.Product, error) {
	product.UserID = userID
	applyProductDefaults(product, s.now())
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if product.Barcode != nil {
		existing, err := s.products.GetByBarcode(ctx, userID, *product.Barcode)
		switch {
		case err == nil:
			return s.resolveConflict(ctx, product, existing, policy)
		case !errors.Is(err, domain.ErrProductNotFound):
			return nil, err
		}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) resolveConflict(ctx context.Context, product, existing *domain.Product, policy ConflictPolicy) (*domain.Product, error) {
	switch policy {
	case ConflictUpdate:
		product.ID = existing.ID
		product.DateAdded = existing.DateAdded
		product.IsCustom = existing.IsCustom
		if err := s.products.Update(ctx, product); err != nil {
			return nil, err
		}
		s.logger.Info().Uint("product", product.ID).Msg("updated product in place on barcode conflict")
		return product, nil
	case ConflictNew:
		product.Barcode = nil
		if err := s.products.Create(ctx, product); err != nil {
			return nil, err
		}
		return product, nil
	default:
		return nil, &domain.DuplicateBarcodeError{Existing: existing}
	}
}

// Update validates and saves changes to an existing product. Entries logged
// before the change keep their frozen values.
func (s *ProductService) Update(ctx context.Context, userID uint, product *domain.Product) (*domain.Product, error) {
	current, err := s.products.GetByID(ctx, userID, product.ID)
	if err != nil {
		return nil, err
	}
	product.UserID = userID
	product.DateAdded = current.DateAdded
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if product.Barcode != nil {
		existing, err := s.products.GetByBarcode(ctx, userID, *product.Barcode)
		if err == nil && existing.ID != product.ID {
			return nil, &domain.DuplicateBarcodeError{Existing: existing}
		}
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. Entries that reference it keep their frozen
// values and lose only the back-reference.
func (s *ProductService) Delete(ctx context.Context, userID, id uint) error {
	return s.products.Delete(ctx, userID, id)
}

// Get returns one product, scoped to its owner.
func (s *ProductService) Get(ctx context.Context, userID, id uint) (*domain.Product, error) {
	return s.products.GetByID(ctx, userID, id)
}

// Search returns the user's products ranked against the query. The query is
// cleaned of sizes and filler first; candidates come from the store, the
// ranker orders them.
func (s *ProductService) Search(ctx context.Context, userID uint, query string) ([]domain.Product, error) {
	cleaned := s.prep.Clean(query)
	candidates, err := s.products.Search(ctx, userID, cleaned, s.searchN)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(cleaned, candidates), nil
}

// ResolveBarcode returns the product for a barcode.
// Flow: own products -> shared lookup cache -> external database. An
// external hit is saved as a non-custom product for this user so the next
// scan stays local.
func (s *ProductService) ResolveBarcode(ctx context.Context, userID uint, barcode string) (*domain.Product, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", domain.ErrValidation)
	}

	local, err := s.products.GetByBarcode(ctx, userID, barcode)
	if err == nil {
		return local, nil
	}
	if !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}

	draft, err := s.lookupCached(ctx, barcode)
	if err != nil {
		return nil, err
	}
	draft.UserID = userID
	draft.IsCustom = false
	draft.DateAdded = s.now()
	if err := s.products.Create(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Info().Str("barcode", barcode).Uint("product", draft.ID).Msg("saved product from external lookup")
	return draft, nil
}

// lookupCached consults the shared cache before the external database. The
// cache is keyed by barcode alone: lookup data is user-independent.
func (s *ProductService) lookupCached(ctx context.Context, barcode string) (*domain.Product, error) {
	cacheKey := "lookup:barcode:" + barcode

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		if draft, ok := decodeCachedProduct(cached); ok {
			return draft, nil
		}
	}

	draft, err := s.lookup.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, draft, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("barcode", barcode).Msg("failed to cache lookup result")
	}
	return draft, nil
}

// decodeCachedProduct re-types a cache hit. The memory cache round-trips
// values through JSON, so hits arrive as generic maps.
func decodeCachedProduct(cached interface{}) (*domain.Product, bool) {
	raw, err := json.Marshal(cached)
	if err != nil {
		return nil, false
	}
	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, false
	}
	if product.Name == "" {
		return nil, false
	}
	product.ID = 0
	return &product, true
}

// applyProductDefaults fills the per-100 defaults label data assumes.
func applyProductDefaults(product *domain.Product, now time.Time) {
	if product.ReferenceAmount == 0 {
		product.ReferenceAmount = domain.DefaultReferenceAmount
	}
	if product.ReferenceUnit == "" {
		product.ReferenceUnit = domain.UnitGram
	}
	if product.DateAdded.IsZero() {
		product.DateAdded = now
	}
}

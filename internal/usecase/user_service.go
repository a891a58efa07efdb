package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/auth"
	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// TargetUpdate carries a partial change to a user's daily targets. Nil
// fields keep their current value.
type TargetUpdate struct {
	CalorieTarget *float64          `json:"calorieTarget"`
	ProteinTarget *float64          `json:"proteinTarget"`
	CarbTarget    *float64          `json:"carbTarget"`
	FatTarget     *float64          `json:"fatTarget"`
	SugarLimit    *float64          `json:"sugarLimit"`
	SodiumLimit   *float64          `json:"sodiumLimit"`
	BonusMode     *domain.BonusMode `json:"bonusMode"`
}

// UserService handles accounts: registration, login and target changes.
// Target changes only touch the user row; day logs pick them up through
// the lazy resync when the day is ensured.
type UserService struct {
	users  domain.UserStore
	tokens *auth.TokenManager
	logger zerolog.Logger
	now    func() time.Time
}

// NewUserService creates a user service.
func NewUserService(users domain.UserStore, tokens *auth.TokenManager, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("component", "user_service").Logger(),
		now:    time.Now,
	}
}

// Register creates an account with the default targets and returns it with
// a fresh token.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, auth.MinPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:         email,
		PasswordHash:  hash,
		Name:          strings.TrimSpace(name),
		CalorieTarget: domain.DefaultCalorieTarget,
		ProteinTarget: domain.DefaultProteinTarget,
		CarbTarget:    domain.DefaultCarbTarget,
		FatTarget:     domain.DefaultFatTarget,
		SugarLimit:    domain.DefaultSugarLimit,
		SodiumLimit:   domain.DefaultSodiumLimit,
		BonusMode:     domain.BonusWorkoutsOnly,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info().Uint("user", user.ID).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and mints a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Get returns the account.
func (s *UserService) Get(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateTargets applies a partial target change. Every supplied value must
// be positive and finite; the bonus mode must be one of the known modes.
func (s *UserService) UpdateTargets(ctx context.Context, userID uint, update TargetUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]struct {
		value *float64
		dst   *float64
	}{
		"calorieTarget": {update.CalorieTarget, &user.CalorieTarget},
		"proteinTarget": {update.ProteinTarget, &user.ProteinTarget},
		"carbTarget":    {update.CarbTarget, &user.CarbTarget},
		"fatTarget":     {update.FatTarget, &user.FatTarget},
		"sugarLimit":    {update.SugarLimit, &user.SugarLimit},
		"sodiumLimit":   {update.SodiumLimit, &user.SodiumLimit},
	}
	for name, f := range fields {
		if f.value == nil {
			continue
		}
		if v := *f.value; v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be positive", domain.ErrValidation, name)
		}
	}
	if update.BonusMode != nil && !update.BonusMode.Valid() {
		return nil, fmt.Errorf("%w: unknown bonus mode %q", domain.ErrValidation, *update.BonusMode)
	}

	for _, f := range fields {
		if f.value != nil {
			*f.dst = *f.value
		}
	}
	if update.BonusMode != nil {
		user.BonusMode = *update.BonusMode
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Debug().Uint("user", user.ID).Msg("targets updated")
	return user, nil
}

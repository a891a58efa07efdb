package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/auth"
	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

func newTestUserService(users *MockUserStore) *UserService {
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "caltrack", time.Hour)
	return NewUserService(users, tokens, testLogger())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with default targets", func(t *testing.T) {
		users := NewMockUserStore()
		svc := newTestUserService(users)

		user, token, err := svc.Register(ctx, "Anna@Example.com", "long-enough-pw", "Anna")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Email != "anna@example.com" {
			t.Errorf("Email = %q, want lowercased", user.Email)
		}
		if user.CalorieTarget != domain.DefaultCalorieTarget || user.SugarLimit != domain.DefaultSugarLimit {
			t.Errorf("targets = %v/%v, want defaults", user.CalorieTarget, user.SugarLimit)
		}
		if user.BonusMode != domain.BonusWorkoutsOnly {
			t.Errorf("BonusMode = %q, want workouts-only", user.BonusMode)
		}
		if user.PasswordHash == "long-enough-pw" {
			t.Error("password stored in plaintext")
		}
		if !auth.CheckPassword(user.PasswordHash, "long-enough-pw") {
			t.Error("stored hash does not verify the password")
		}
		if strings.Count(token, ".") != 2 {
			t.Errorf("token = %q, want a JWT", token)
		}
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		users := NewMockUserStore()
		users.put(&domain.User{Email: "anna@example.com"})
		svc := newTestUserService(users)

		if _, _, err := svc.Register(ctx, "anna@example.com", "long-enough-pw", "Anna"); !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc := newTestUserService(NewMockUserStore())

		if _, _, err := svc.Register(ctx, "not-an-email", "long-enough-pw", ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("bad email error = %v, want ErrValidation", err)
		}
		if _, _, err := svc.Register(ctx, "anna@example.com", "short", ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("short password error = %v, want ErrValidation", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*UserService, *MockUserStore) {
		users := NewMockUserStore()
		svc := newTestUserService(users)
		if _, _, err := svc.Register(ctx, "anna@example.com", "long-enough-pw", "Anna"); err != nil {
			t.Fatalf("seed Register() error = %v", err)
		}
		return svc, users
	}

	t.Run("valid credentials mint a token", func(t *testing.T) {
		svc, _ := seed(t)
		user, token, err := svc.Login(ctx, "Anna@example.com ", "long-enough-pw")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.Email != "anna@example.com" {
			t.Errorf("Email = %q", user.Email)
		}
		if strings.Count(token, ".") != 2 {
			t.Errorf("token = %q, want a JWT", token)
		}
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc, _ := seed(t)
		_, _, wrongPw := svc.Login(ctx, "anna@example.com", "wrong-password")
		_, _, unknown := svc.Login(ctx, "nobody@example.com", "long-enough-pw")
		if !errors.Is(wrongPw, domain.ErrInvalidCredentials) {
			t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPw)
		}
		if !errors.Is(unknown, domain.ErrInvalidCredentials) {
			t.Errorf("unknown email error = %v, want ErrInvalidCredentials", unknown)
		}
	})
}

func TestUpdateTargets(t *testing.T) {
	ctx := context.Background()

	seed := func() (*UserService, *MockUserStore, *domain.User) {
		users := NewMockUserStore()
		user := testUser()
		users.put(user)
		return newTestUserService(users), users, user
	}

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		svc, _, _ := seed()

		updated, err := svc.UpdateTargets(ctx, 1, TargetUpdate{CalorieTarget: floatPtr(2200)})
		if err != nil {
			t.Fatalf("UpdateTargets() error = %v", err)
		}
		if updated.CalorieTarget != 2200 {
			t.Errorf("CalorieTarget = %v, want 2200", updated.CalorieTarget)
		}
		if updated.ProteinTarget != 120 || updated.SugarLimit != 25 {
			t.Errorf("untouched fields changed: %v/%v", updated.ProteinTarget, updated.SugarLimit)
		}
	})

	t.Run("bonus mode change", func(t *testing.T) {
		svc, _, _ := seed()

		mode := domain.BonusAllActive
		updated, err := svc.UpdateTargets(ctx, 1, TargetUpdate{BonusMode: &mode})
		if err != nil {
			t.Fatalf("UpdateTargets() error = %v", err)
		}
		if updated.BonusMode != domain.BonusAllActive {
			t.Errorf("BonusMode = %q, want all-active", updated.BonusMode)
		}
	})

	t.Run("rejects non-positive targets", func(t *testing.T) {
		svc, users, _ := seed()

		for _, v := range []float64{0, -100} {
			if _, err := svc.UpdateTargets(ctx, 1, TargetUpdate{ProteinTarget: floatPtr(v)}); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("UpdateTargets(%v) error = %v, want ErrValidation", v, err)
			}
		}
		if users.updated {
			t.Error("store updated despite the rejection")
		}
	})

	t.Run("rejects unknown bonus modes", func(t *testing.T) {
		svc, _, _ := seed()

		mode := domain.BonusMode("step-count")
		if _, err := svc.UpdateTargets(ctx, 1, TargetUpdate{BonusMode: &mode}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown user surfaces", func(t *testing.T) {
		svc := newTestUserService(NewMockUserStore())
		if _, err := svc.UpdateTargets(ctx, 99, TargetUpdate{}); !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})
}

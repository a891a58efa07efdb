package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// The clock is pinned to 2025-03-15; "today" in these tests is that date.
func newTestLogService(logs *MockLogStore, users *MockUserStore, products *MockProductStore, activity *MockActivityStore) *LogService {
	svc := NewLogService(logs, users, products, activity, domain.DefaultCatalog(),
		LogServiceConfig{Rollup: RollupOptions{PreferEntryAmountForGramUnits: true}}, testLogger())
	svc.now = func() time.Time { return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func testUser() *domain.User {
	return &domain.User{
		ID:            1,
		Email:         "test@example.com",
		CalorieTarget: 2000,
		ProteinTarget: 120,
		CarbTarget:    250,
		FatTarget:     70,
		SugarLimit:    25,
		SodiumLimit:   2300,
		BonusMode:     domain.BonusWorkoutsOnly,
	}
}

func TestEnsureLog(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a new log with a target snapshot", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		log, err := svc.EnsureLog(ctx, 1, time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if !log.Date.Equal(day(2025, time.March, 15)) {
			t.Errorf("Date = %v, want midnight of the day", log.Date)
		}
		if log.CalorieTarget != 2000 || log.SugarLimit != 25 {
			t.Errorf("targets = %v/%v, want the user snapshot 2000/25", log.CalorieTarget, log.SugarLimit)
		}
		if len(logs.logs) != 1 {
			t.Errorf("stored logs = %d, want 1", len(logs.logs))
		}
	})

	t.Run("historical logs keep their closed targets", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		user := testUser()
		user.CalorieTarget = 2400 // changed since the day closed
		users.put(user)
		logs.putLog(&domain.DayLog{UserID: 1, Date: day(2025, time.March, 10), CalorieTarget: 1800})
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		log, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if log.CalorieTarget != 1800 {
			t.Errorf("CalorieTarget = %v, want the historical 1800", log.CalorieTarget)
		}
		if logs.logUpdates != 0 {
			t.Errorf("logUpdates = %d, want no write for a past day", logs.logUpdates)
		}
		if users.getCalls != 0 {
			t.Errorf("user loaded %d times for a past day, want 0", users.getCalls)
		}
	})

	t.Run("resyncs today's log when targets changed", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		user := testUser()
		user.CalorieTarget = 2400
		users.put(user)
		logs.putLog(&domain.DayLog{UserID: 1, Date: day(2025, time.March, 15), CalorieTarget: 2000, SugarLimit: 25})
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		log, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 15))
		if err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if log.CalorieTarget != 2400 {
			t.Errorf("CalorieTarget = %v, want the resynced 2400", log.CalorieTarget)
		}
		if logs.logUpdates != 1 {
			t.Errorf("logUpdates = %d, want 1", logs.logUpdates)
		}
	})

	t.Run("resyncs future logs", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		logs.putLog(&domain.DayLog{UserID: 1, Date: day(2025, time.March, 20), CalorieTarget: 1500})
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		log, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 20))
		if err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if log.CalorieTarget != 2000 {
			t.Errorf("CalorieTarget = %v, want 2000", log.CalorieTarget)
		}
	})

	t.Run("unchanged targets skip the write", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		logs.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 15),
			CalorieTarget: 2000, ProteinTarget: 120, CarbTarget: 250, FatTarget: 70,
			SugarLimit: 25, SodiumLimit: 2300,
		})
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		if _, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 15)); err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if logs.logUpdates != 0 {
			t.Errorf("logUpdates = %d, want 0 when nothing changed", logs.logUpdates)
		}
	})

	t.Run("lost create race falls back to the winner", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		logs.createErr = errors.New("duplicate key value violates unique constraint")
		logs.raceWinner = &domain.DayLog{UserID: 1, Date: day(2025, time.March, 15), CalorieTarget: 2000}
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		log, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 15))
		if err != nil {
			t.Fatalf("EnsureLog() error = %v", err)
		}
		if log.ID != logs.raceWinner.ID {
			t.Errorf("log.ID = %d, want the winner's %d", log.ID, logs.raceWinner.ID)
		}
	})

	t.Run("create failure without a winner surfaces", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		logs.createErr = errors.New("connection refused")
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		if _, err := svc.EnsureLog(ctx, 1, day(2025, time.March, 15)); err == nil {
			t.Error("EnsureLog() error = nil, want the create failure")
		}
	})
}

func TestLogServiceSummary(t *testing.T) {
	ctx := context.Background()

	seedDay := func(logs *MockLogStore) {
		logs.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 10),
			CalorieTarget: 2000, ProteinTarget: 120, CarbTarget: 250, FatTarget: 70,
			SugarLimit: 25, SodiumLimit: 2300,
			Entries: []domain.FoodEntry{
				{Calories: 500, Protein: 30, Carbohydrates: 40, Fat: 20, AddedSugar: floatPtr(18), Sodium: floatPtr(900)},
				{Calories: 700, Protein: 45, Carbohydrates: 60, Fat: 30, AddedSugar: floatPtr(12), Sodium: floatPtr(1000)},
			},
		})
	}

	t.Run("aggregates totals, progress and adjusted limits", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		activity := NewMockActivityStore()
		activity.put(&domain.ActivitySnapshot{
			UserID: 1, Date: day(2025, time.March, 10),
			WorkoutCalories: 300, Authorized: true,
		})
		seedDay(logs)
		svc := newTestLogService(logs, users, NewMockProductStore(), activity)

		summary, err := svc.Summary(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if !closeTo(summary.Totals.Calories, 1200) {
			t.Errorf("Calories = %v, want 1200", summary.Totals.Calories)
		}
		if !closeTo(summary.CalorieProgress.Ratio, 0.6) {
			t.Errorf("calorie ratio = %v, want 0.6", summary.CalorieProgress.Ratio)
		}
		if summary.EarnedCalories != 300 {
			t.Errorf("EarnedCalories = %v, want 300", summary.EarnedCalories)
		}
		if !closeTo(summary.Sugar.Adjusted.Limit, 40) {
			t.Errorf("sugar limit = %v, want 25 base + 15 bonus", summary.Sugar.Adjusted.Limit)
		}
		if summary.Sugar.OverLimit {
			t.Error("sugar over limit at 30 of 40")
		}
		if !closeTo(summary.Sodium.Adjusted.Limit, 2600) {
			t.Errorf("sodium limit = %v, want 2600", summary.Sodium.Adjusted.Limit)
		}
		if summary.Sodium.OverLimit {
			t.Error("sodium over limit at 1900 of 2600")
		}
		if !closeTo(summary.SaltGrams, 4.75) {
			t.Errorf("SaltGrams = %v, want 4.75", summary.SaltGrams)
		}
		if summary.EntryCount != 2 {
			t.Errorf("EntryCount = %d, want 2", summary.EntryCount)
		}
	})

	t.Run("reports sugar strictly above the adjusted limit", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		logs.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 10),
			SugarLimit: 25, SodiumLimit: 2300,
			Entries: []domain.FoodEntry{{Calories: 300, AddedSugar: floatPtr(25)}},
		})
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		summary, err := svc.Summary(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if summary.Sugar.OverLimit {
			t.Error("exactly at the limit reported as over")
		}

		logs2 := NewMockLogStore()
		logs2.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 10),
			SugarLimit: 25, SodiumLimit: 2300,
			Entries: []domain.FoodEntry{{Calories: 300, AddedSugar: floatPtr(25.5)}},
		})
		svc2 := newTestLogService(logs2, users, NewMockProductStore(), NewMockActivityStore())
		summary2, err := svc2.Summary(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if !summary2.Sugar.OverLimit {
			t.Error("above the limit not reported as over")
		}
	})

	t.Run("no activity snapshot means base limits", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		seedDay(logs)
		svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

		summary, err := svc.Summary(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if summary.EarnedCalories != 0 {
			t.Errorf("EarnedCalories = %v, want 0", summary.EarnedCalories)
		}
		if summary.Sugar.Adjusted.Limit != 25 {
			t.Errorf("sugar limit = %v, want the 25 base", summary.Sugar.Adjusted.Limit)
		}
		if !summary.Sugar.OverLimit {
			t.Error("30 g of added sugar on a 25 g limit should read over")
		}
	})

	t.Run("activity store failure surfaces", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		activity := NewMockActivityStore()
		activity.findErr = errors.New("connection reset")
		seedDay(logs)
		svc := newTestLogService(logs, users, NewMockProductStore(), activity)

		if _, err := svc.Summary(ctx, 1, day(2025, time.March, 10)); err == nil {
			t.Error("Summary() error = nil, want the store failure")
		}
	})
}

func TestLogServiceNutrientBreakdown(t *testing.T) {
	ctx := context.Background()

	t.Run("sums from entry products", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		products := NewMockProductStore()
		products.put(&domain.Product{
			ID: 3, UserID: 1, Name: "Spinach",
			ReferenceAmount: 100, ReferenceUnit: domain.UnitGram, Calories: 23,
			Nutrients: domain.NutrientRecord{domain.NutrientIron: 2.7, domain.NutrientVitaminK: 480},
		})
		pid := uint(3)
		logs.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 10),
			Entries: []domain.FoodEntry{
				{ProductID: &pid, Unit: domain.UnitGram, Amount: 200, Calories: 46},
			},
		})
		svc := newTestLogService(logs, users, products, NewMockActivityStore())

		rows, err := svc.NutrientBreakdown(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("NutrientBreakdown() error = %v", err)
		}
		if !products.getByIDsCalled {
			t.Error("products were never loaded")
		}
		var iron NutrientStatus
		for _, row := range rows {
			if row.ID == domain.NutrientIron {
				iron = row
			}
		}
		if !closeTo(iron.Total, 5.4) {
			t.Errorf("iron = %v, want 5.4 for 200 g", iron.Total)
		}
		if iron.Source != "products" {
			t.Errorf("Source = %q, want products", iron.Source)
		}
	})

	t.Run("applied analysis skips product loading", func(t *testing.T) {
		logs := NewMockLogStore()
		users := NewMockUserStore()
		users.put(testUser())
		products := NewMockProductStore()
		at := time.Date(2025, time.March, 10, 21, 0, 0, 0, time.UTC)
		pid := uint(3)
		logs.putLog(&domain.DayLog{
			UserID: 1, Date: day(2025, time.March, 10),
			Entries:        []domain.FoodEntry{{ProductID: &pid, Unit: domain.UnitGram, Amount: 200, Calories: 46}},
			MicroOverrides: domain.NutrientRecord{domain.NutrientIron: 9},
			AnalysisDate:   &at,
		})
		svc := newTestLogService(logs, users, products, NewMockActivityStore())

		rows, err := svc.NutrientBreakdown(ctx, 1, day(2025, time.March, 10))
		if err != nil {
			t.Fatalf("NutrientBreakdown() error = %v", err)
		}
		if products.getByIDsCalled {
			t.Error("products loaded though the analysis override is applied")
		}
		for _, row := range rows {
			if row.ID == domain.NutrientIron && row.Total != 9 {
				t.Errorf("iron = %v, want the override 9", row.Total)
			}
			if row.ID == domain.NutrientIron && row.Source != "analysis" {
				t.Errorf("Source = %q, want analysis", row.Source)
			}
		}
	})
}

func TestSetAndResetAnalysis(t *testing.T) {
	ctx := context.Background()

	logs := NewMockLogStore()
	users := NewMockUserStore()
	users.put(testUser())
	logs.putLog(&domain.DayLog{UserID: 1, Date: day(2025, time.March, 10)})
	svc := newTestLogService(logs, users, NewMockProductStore(), NewMockActivityStore())

	record := domain.NutrientRecord{domain.NutrientVitaminC: 55}
	at := time.Date(2025, time.March, 10, 21, 30, 0, 0, time.UTC)

	log, err := svc.SetAnalysis(ctx, 1, day(2025, time.March, 10), record, at)
	if err != nil {
		t.Fatalf("SetAnalysis() error = %v", err)
	}
	if !log.AnalysisApplied() {
		t.Fatal("AnalysisApplied() = false after SetAnalysis")
	}
	if log.AnalysisDate == nil || !log.AnalysisDate.Equal(at) {
		t.Errorf("AnalysisDate = %v, want %v", log.AnalysisDate, at)
	}
	if logs.logUpdates != 1 {
		t.Errorf("logUpdates = %d, want 1", logs.logUpdates)
	}

	// The stored override is a copy; the caller's record can change freely.
	record.Set(domain.NutrientVitaminC, 999)
	if v, _ := log.MicroOverrides.Get(domain.NutrientVitaminC); v != 55 {
		t.Errorf("override = %v, want the snapshot 55", v)
	}

	log, err = svc.ResetAnalysis(ctx, 1, day(2025, time.March, 10))
	if err != nil {
		t.Fatalf("ResetAnalysis() error = %v", err)
	}
	if log.AnalysisApplied() || log.MicroOverrides != nil {
		t.Errorf("analysis still applied after reset: %v %v", log.AnalysisDate, log.MicroOverrides)
	}
}

package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

func TestTotals(t *testing.T) {
	t.Run("sums as-consumed values", func(t *testing.T) {
		entries := []domain.FoodEntry{
			{Calories: 94.3, Protein: 5.175, Carbohydrates: 4.6, Fat: 4.945, Fibre: floatPtr(2.0), Sodium: floatPtr(60)},
			{Calories: 200, Protein: 10, Carbohydrates: 20, Fat: 5, Sodium: floatPtr(300)},
		}
		got := Totals(entries)
		if !closeTo(got.Calories, 294.3) {
			t.Errorf("Calories = %v, want 294.3", got.Calories)
		}
		if !closeTo(got.Protein, 15.175) {
			t.Errorf("Protein = %v, want 15.175", got.Protein)
		}
		if !closeTo(got.Fibre, 2.0) {
			t.Errorf("Fibre = %v, want 2.0 with the absent value reading as zero", got.Fibre)
		}
		if !closeTo(got.Sodium, 360) {
			t.Errorf("Sodium = %v, want 360", got.Sodium)
		}
	})

	t.Run("order independent", func(t *testing.T) {
		entries := []domain.FoodEntry{
			{Calories: 94.3, Fibre: floatPtr(1.5)},
			{Calories: 200},
			{Calories: 131.25, Fibre: floatPtr(0.5)},
		}
		reversed := []domain.FoodEntry{entries[2], entries[1], entries[0]}
		a, b := Totals(entries), Totals(reversed)
		if !closeTo(a.Calories, b.Calories) || !closeTo(a.Fibre, b.Fibre) {
			t.Errorf("Totals depend on order: %+v vs %+v", a, b)
		}
	})

	t.Run("total sugar prefers the parts", func(t *testing.T) {
		entries := []domain.FoodEntry{
			// Parts win over a combined figure when both are present.
			{NaturalSugar: floatPtr(4.0), AddedSugar: floatPtr(1.5), Sugar: floatPtr(99)},
			// Only the combined figure is known.
			{Sugar: floatPtr(18)},
			// One known part.
			{NaturalSugar: floatPtr(2.5)},
			// Nothing known.
			{},
		}
		got := Totals(entries)
		if !closeTo(got.TotalSugar, 26.0) {
			t.Errorf("TotalSugar = %v, want 26.0", got.TotalSugar)
		}
		if !closeTo(got.NaturalSugar, 6.5) {
			t.Errorf("NaturalSugar = %v, want 6.5", got.NaturalSugar)
		}
		if !closeTo(got.AddedSugar, 1.5) {
			t.Errorf("AddedSugar = %v, want 1.5", got.AddedSugar)
		}
	})

	t.Run("empty day", func(t *testing.T) {
		got := Totals(nil)
		if got != (MacroTotals{}) {
			t.Errorf("Totals(nil) = %+v, want zero", got)
		}
	})
}

func TestProgressRatio(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		target float64
		want   float64
	}{
		{"halfway", 60, 120, 0.5},
		{"exactly met", 120, 120, 1},
		{"capped above target", 180, 120, 1},
		{"zero target", 50, 0, 0},
		{"negative target", 50, -10, 0},
		{"nothing logged", 0, 120, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressRatio(tt.total, tt.target); !closeTo(got, tt.want) {
				t.Errorf("ProgressRatio(%v, %v) = %v, want %v", tt.total, tt.target, got, tt.want)
			}
		})
	}
}

func microProduct(id uint, perHundred map[domain.NutrientID]float64) *domain.Product {
	return &domain.Product{
		ID:              id,
		Name:            "test product",
		ReferenceAmount: 100,
		ReferenceUnit:   domain.UnitGram,
		Calories:        82,
		Nutrients:       domain.NutrientRecord(perHundred),
	}
}

func TestRollupMicronutrient(t *testing.T) {
	catalog := domain.DefaultCatalog()

	t.Run("gram entries use the logged amount when preferred", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})
		products := map[uint]*domain.Product{
			1: microProduct(1, map[domain.NutrientID]float64{domain.NutrientVitaminC: 12}),
		}
		pid := uint(1)
		log := &domain.DayLog{Entries: []domain.FoodEntry{
			{ProductID: &pid, Unit: domain.UnitGram, Amount: 150, Calories: 123},
		}}
		if got := r.Micronutrient(domain.NutrientVitaminC, log, products); !closeTo(got, 18) {
			t.Errorf("Micronutrient() = %v, want 18", got)
		}
	})

	t.Run("piece entries infer weight from the calorie ratio", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})
		product := microProduct(2, map[domain.NutrientID]float64{domain.NutrientVitaminC: 12})
		product.Calories = 95
		product.ReferenceUnit = domain.UnitPiece
		products := map[uint]*domain.Product{2: product}
		pid := uint(2)
		log := &domain.DayLog{Entries: []domain.FoodEntry{
			{ProductID: &pid, Unit: domain.UnitPiece, Amount: 1, Calories: 95},
		}}
		// 95 kcal consumed over 95 kcal per reference reads as 100 g.
		if got := r.Micronutrient(domain.NutrientVitaminC, log, products); !closeTo(got, 12) {
			t.Errorf("Micronutrient() = %v, want 12", got)
		}
	})

	t.Run("calorie inference applies to gram entries when not preferred", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: false})
		products := map[uint]*domain.Product{
			1: microProduct(1, map[domain.NutrientID]float64{domain.NutrientVitaminC: 12}),
		}
		pid := uint(1)
		log := &domain.DayLog{Entries: []domain.FoodEntry{
			{ProductID: &pid, Unit: domain.UnitGram, Amount: 150, Calories: 41},
		}}
		// 41 of 82 kcal is half the reference, so 50 g regardless of Amount.
		if got := r.Micronutrient(domain.NutrientVitaminC, log, products); !closeTo(got, 6) {
			t.Errorf("Micronutrient() = %v, want 6", got)
		}
	})

	t.Run("entries without a product contribute nothing", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})
		missing := uint(99)
		log := &domain.DayLog{Entries: []domain.FoodEntry{
			// An AI entry with no product, and an entry whose product was deleted.
			{Unit: domain.UnitGram, Amount: 200, Calories: 300},
			{ProductID: &missing, Unit: domain.UnitGram, Amount: 100, Calories: 82},
		}}
		if got := r.Micronutrient(domain.NutrientVitaminC, log, nil); got != 0 {
			t.Errorf("Micronutrient() = %v, want 0", got)
		}
	})

	t.Run("zero-calorie product contributes nothing on the inferred path", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{})
		product := microProduct(3, map[domain.NutrientID]float64{domain.NutrientPotassium: 480})
		product.Calories = 0
		products := map[uint]*domain.Product{3: product}
		pid := uint(3)
		log := &domain.DayLog{Entries: []domain.FoodEntry{
			{ProductID: &pid, Unit: domain.UnitGram, Amount: 500, Calories: 0},
		}}
		if got := r.Micronutrient(domain.NutrientPotassium, log, products); got != 0 {
			t.Errorf("Micronutrient() = %v, want 0", got)
		}
	})

	t.Run("applied analysis wins outright", func(t *testing.T) {
		r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})
		products := map[uint]*domain.Product{
			1: microProduct(1, map[domain.NutrientID]float64{
				domain.NutrientVitaminC: 12,
				domain.NutrientIron:     4,
			}),
		}
		pid := uint(1)
		at := time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)
		log := &domain.DayLog{
			Entries:        []domain.FoodEntry{{ProductID: &pid, Unit: domain.UnitGram, Amount: 100, Calories: 82}},
			MicroOverrides: domain.NutrientRecord{domain.NutrientVitaminC: 55},
			AnalysisDate:   &at,
		}
		if got := r.Micronutrient(domain.NutrientVitaminC, log, products); !closeTo(got, 55) {
			t.Errorf("Micronutrient(vitamin_c) = %v, want the override 55", got)
		}
		// Iron is absent from the override, so it reads zero even though a
		// product-derived value exists.
		if got := r.Micronutrient(domain.NutrientIron, log, products); got != 0 {
			t.Errorf("Micronutrient(iron) = %v, want 0 while analysis is applied", got)
		}
	})
}

func TestRollupNutrientBreakdown(t *testing.T) {
	catalog := domain.DefaultCatalog()
	r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})

	products := map[uint]*domain.Product{
		1: microProduct(1, map[domain.NutrientID]float64{
			domain.NutrientIron:     4.567,
			domain.NutrientVitaminC: 200,
		}),
	}
	pid := uint(1)
	log := &domain.DayLog{Entries: []domain.FoodEntry{
		{ProductID: &pid, Unit: domain.UnitGram, Amount: 100, Calories: 82},
	}}

	rows := r.NutrientBreakdown(log, products)
	if len(rows) != catalog.Len() {
		t.Fatalf("len(rows) = %d, want %d", len(rows), catalog.Len())
	}

	byID := make(map[domain.NutrientID]NutrientStatus, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	iron := byID[domain.NutrientIron]
	if !closeTo(iron.Total, 4.6) {
		t.Errorf("iron Total = %v, want 4.6 rounded to one decimal", iron.Total)
	}
	if !closeTo(iron.Ratio, 4.567/14.0) {
		t.Errorf("iron Ratio = %v, want %v", iron.Ratio, 4.567/14.0)
	}
	if iron.OverLimit {
		t.Error("iron OverLimit = true below the ceiling")
	}
	if iron.Source != "products" {
		t.Errorf("iron Source = %q, want products", iron.Source)
	}

	c := byID[domain.NutrientVitaminC]
	if !closeTo(c.Ratio, 1) {
		t.Errorf("vitamin C Ratio = %v, want capped at 1", c.Ratio)
	}
	if c.OverLimit {
		t.Error("vitamin C OverLimit = true at 200 of 1000")
	}

	// Nothing logged for the rest of the catalog.
	zinc := byID[domain.NutrientZinc]
	if zinc.Total != 0 || zinc.Ratio != 0 {
		t.Errorf("zinc = %v/%v, want 0/0", zinc.Total, zinc.Ratio)
	}

	t.Run("over limit is strictly above", func(t *testing.T) {
		at := time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)
		overLog := &domain.DayLog{
			MicroOverrides: domain.NutrientRecord{
				domain.NutrientVitaminB3: 35,   // upper limit exactly
				domain.NutrientZinc:      25.1, // just above the 25 ceiling
			},
			AnalysisDate: &at,
		}
		rows := r.NutrientBreakdown(overLog, nil)
		byID := make(map[domain.NutrientID]NutrientStatus, len(rows))
		for _, row := range rows {
			byID[row.ID] = row
		}
		if byID[domain.NutrientVitaminB3].OverLimit {
			t.Error("B3 at exactly the ceiling reported over limit")
		}
		if !byID[domain.NutrientZinc].OverLimit {
			t.Error("zinc above the ceiling not reported over limit")
		}
		if byID[domain.NutrientZinc].Source != "analysis" {
			t.Errorf("Source = %q, want analysis", byID[domain.NutrientZinc].Source)
		}
	})
}

func TestRollupRepeatable(t *testing.T) {
	catalog := domain.DefaultCatalog()
	r := NewRollup(catalog, RollupOptions{PreferEntryAmountForGramUnits: true})
	products := map[uint]*domain.Product{
		1: microProduct(1, map[domain.NutrientID]float64{domain.NutrientMagnesium: 57.3}),
	}
	pid := uint(1)
	log := &domain.DayLog{Entries: []domain.FoodEntry{
		{ProductID: &pid, Unit: domain.UnitGram, Amount: 137, Calories: 99},
	}}

	first := r.Micronutrient(domain.NutrientMagnesium, log, products)
	for i := 0; i < 3; i++ {
		if got := r.Micronutrient(domain.NutrientMagnesium, log, products); got != first {
			t.Fatalf("Micronutrient() not repeatable: %v vs %v", got, first)
		}
	}
	if math.Abs(first-Scale(57.3, 100, 137)) > 1e-12 {
		t.Errorf("Micronutrient() = %v, want %v", first, Scale(57.3, 100, 137))
	}
}

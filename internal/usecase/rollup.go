package usecase

import (
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// MacroTotals are the summed as-consumed values of one day. Summation is the
// single place where an absent optional value counts as zero; before this
// point unknown stays unknown.
type MacroTotals struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fibre         float64 `json:"fibre"`
	Sodium        float64 `json:"sodium"` // milligrams
	NaturalSugar  float64 `json:"naturalSugar"`
	AddedSugar    float64 `json:"addedSugar"`
	TotalSugar    float64 `json:"totalSugar"`
}

// Progress is one ascending goal: how much of the target is reached.
type Progress struct {
	Total  float64 `json:"total"`
	Target float64 `json:"target"`
	Ratio  float64 `json:"ratio"` // capped at 1
}

// LimitStatus is one capped metric with its exercise-adjusted limit.
type LimitStatus struct {
	Total     float64       `json:"total"`
	Adjusted  AdjustedLimit `json:"adjusted"`
	OverLimit bool          `json:"overLimit"` // strictly above the effective limit
}

// DaySummary is the aggregated view of one day log.
type DaySummary struct {
	Date            time.Time        `json:"date"`
	Totals          MacroTotals      `json:"totals"`
	CalorieProgress Progress         `json:"calorieProgress"`
	ProteinProgress Progress         `json:"proteinProgress"`
	CarbProgress    Progress         `json:"carbProgress"`
	FatProgress     Progress         `json:"fatProgress"`
	Sugar           LimitStatus      `json:"sugar"`
	Sodium          LimitStatus      `json:"sodium"`
	SaltGrams       float64          `json:"saltGrams"`
	BonusMode       domain.BonusMode `json:"bonusMode"`
	EarnedCalories  float64          `json:"earnedCalories"`
	EntryCount      int              `json:"entryCount"`
	AnalysisApplied bool             `json:"analysisApplied"`
}

// NutrientStatus is one catalog nutrient on the micronutrient dashboard.
type NutrientStatus struct {
	ID         domain.NutrientID `json:"id"`
	Name       string            `json:"name"`
	ShortName  string            `json:"shortName"`
	Unit       string            `json:"unit"`
	Category   string            `json:"category"`
	Total      float64           `json:"total"`
	Target     float64           `json:"target"`
	Ratio      float64           `json:"ratio"`
	UpperLimit *float64          `json:"upperLimit,omitempty"`
	OverLimit  bool              `json:"overLimit"`
	Source     string            `json:"source"` // "analysis" or "products"
}

// RollupOptions tune how day totals are computed.
type RollupOptions struct {
	// PreferEntryAmountForGramUnits makes gram and ml entries use their
	// logged amount directly when summing micronutrients. When off, the
	// consumed weight is inferred from the calorie ratio for every unit,
	// matching the piece path.
	PreferEntryAmountForGramUnits bool
}

// Rollup computes day aggregates. It is pure over in-memory values: all
// inputs arrive as parameters and repeated calls give identical results.
type Rollup struct {
	catalog *domain.Catalog
	opts    RollupOptions
}

// NewRollup creates a rollup engine over the given catalog.
func NewRollup(catalog *domain.Catalog, opts RollupOptions) *Rollup {
	return &Rollup{catalog: catalog, opts: opts}
}

// ProgressRatio is total/target capped at 1. A ratio never reports beyond
// 100%, and an unset target reads as no progress.
func ProgressRatio(total, target float64) float64 {
	if target <= 0 {
		return 0
	}
	r := total / target
	if r > 1 {
		return 1
	}
	return r
}

// Totals sums the as-consumed values of entries. Order-independent; entries
// missing an optional value contribute zero to that total. TotalSugar uses
// an entry's combined sugar figure when that is all the entry knows,
// otherwise the sum of its parts.
func Totals(entries []domain.FoodEntry) MacroTotals {
	var t MacroTotals
	for i := range entries {
		e := &entries[i]
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbohydrates += e.Carbohydrates
		t.Fat += e.Fat
		if e.Fibre != nil {
			t.Fibre += *e.Fibre
		}
		if e.Sodium != nil {
			t.Sodium += *e.Sodium
		}
		if e.NaturalSugar != nil {
			t.NaturalSugar += *e.NaturalSugar
		}
		if e.AddedSugar != nil {
			t.AddedSugar += *e.AddedSugar
		}
		switch {
		case e.NaturalSugar != nil || e.AddedSugar != nil:
			if e.NaturalSugar != nil {
				t.TotalSugar += *e.NaturalSugar
			}
			if e.AddedSugar != nil {
				t.TotalSugar += *e.AddedSugar
			}
		case e.Sugar != nil:
			t.TotalSugar += *e.Sugar
		}
	}
	return t
}

// Micronutrient returns the day total for one catalog id. While an AI day
// analysis is applied its stored override wins outright, absent values
// reading as 0. Otherwise the total is summed from entries with an attached
// product: the product's per-100 value scaled by the entry's consumed basis.
func (r *Rollup) Micronutrient(id domain.NutrientID, log *domain.DayLog, products map[uint]*domain.Product) float64 {
	if log.AnalysisApplied() {
		v, ok := log.MicroOverrides.Get(id)
		if !ok {
			return 0
		}
		return v
	}
	var total float64
	for i := range log.Entries {
		e := &log.Entries[i]
		if e.ProductID == nil {
			continue
		}
		product := products[*e.ProductID]
		if product == nil {
			continue
		}
		v, ok := product.Nutrients.Get(id)
		if !ok {
			continue
		}
		total += Scale(v, domain.DefaultReferenceAmount, r.consumedBasis(e, product))
	}
	return total
}

// consumedBasis is the weight the micronutrient scaling runs on.
func (r *Rollup) consumedBasis(e *domain.FoodEntry, product *domain.Product) float64 {
	if r.opts.PreferEntryAmountForGramUnits && (e.Unit == domain.UnitGram || e.Unit == domain.UnitMilliliter) {
		return e.Amount
	}
	return InferredGrams(e.Calories, product.Calories, product.ReferenceAmount)
}

// NutrientBreakdown builds the dashboard rows for every catalog nutrient, in
// catalog order. Totals are rounded to each nutrient's display precision;
// the over-limit check runs on the unrounded total.
func (r *Rollup) NutrientBreakdown(log *domain.DayLog, products map[uint]*domain.Product) []NutrientStatus {
	source := "products"
	if log.AnalysisApplied() {
		source = "analysis"
	}
	out := make([]NutrientStatus, 0, r.catalog.Len())
	for _, def := range r.catalog.Definitions() {
		total := r.Micronutrient(def.ID, log, products)
		st := NutrientStatus{
			ID:         def.ID,
			Name:       def.Name,
			ShortName:  def.ShortName,
			Unit:       def.Unit,
			Category:   string(def.Category),
			Total:      RoundTo(total, def.DecimalPlaces),
			Target:     def.Target,
			Ratio:      ProgressRatio(total, def.Target),
			UpperLimit: def.UpperLimit,
		}
		if def.UpperLimit != nil {
			st.OverLimit = total > *def.UpperLimit
		}
		out = append(out, st)
	}
	return out
}

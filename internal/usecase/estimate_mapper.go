package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// nutrientKeyAliases maps spellings AI models commonly use onto catalog ids.
// Keys are matched after normalizeNutrientKey.
var nutrientKeyAliases = map[string]domain.NutrientID{
	"thiamin":          domain.NutrientVitaminB1,
	"thiamine":         domain.NutrientVitaminB1,
	"riboflavin":       domain.NutrientVitaminB2,
	"niacin":           domain.NutrientVitaminB3,
	"pantothenic_acid": domain.NutrientVitaminB5,
	"pyridoxine":       domain.NutrientVitaminB6,
	"biotin":           domain.NutrientVitaminB7,
	"folate":           domain.NutrientVitaminB9,
	"folic_acid":       domain.NutrientVitaminB9,
	"cobalamin":        domain.NutrientVitaminB12,
	"ascorbic_acid":    domain.NutrientVitaminC,
	"b1":               domain.NutrientVitaminB1,
	"b2":               domain.NutrientVitaminB2,
	"b3":               domain.NutrientVitaminB3,
	"b5":               domain.NutrientVitaminB5,
	"b6":               domain.NutrientVitaminB6,
	"b7":               domain.NutrientVitaminB7,
	"b9":               domain.NutrientVitaminB9,
	"b12":              domain.NutrientVitaminB12,
}

// normalizeNutrientKey lowers a raw key and joins word runs with
// underscores, so "Vitamin B12", "vitamin-b12" and "vitamin_b12" all land on
// the same id.
func normalizeNutrientKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return '_'
		}
		return r
	}, key)
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	return strings.Trim(key, "_")
}

// MapMicronutrients validates raw estimate keys against the catalog and
// rounds each value to the nutrient's display precision. Unknown keys and
// unusable values are dropped, never defaulted; the dropped keys come back
// for logging. Only fields the estimate actually carried end up in the
// record.
func MapMicronutrients(raw map[string]float64, catalog *domain.Catalog) (domain.NutrientRecord, []string) {
	if len(raw) == 0 {
		return nil, nil
	}
	record := make(domain.NutrientRecord, len(raw))
	var dropped []string
	for key, value := range raw {
		id := domain.NutrientID(normalizeNutrientKey(key))
		if !catalog.Has(id) {
			if alias, ok := nutrientKeyAliases[string(id)]; ok {
				id = alias
			} else {
				dropped = append(dropped, key)
				continue
			}
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			dropped = append(dropped, key)
			continue
		}
		def, _ := catalog.Get(id)
		record.Set(id, RoundTo(value, def.DecimalPlaces))
	}
	if len(record) == 0 {
		return nil, dropped
	}
	return record, dropped
}

// ProductFromLabelScan materializes a label scan into a draft product for
// the user to confirm. Only fields the scan carried are filled; a missing
// reference basis falls back to the per-100 default rather than zero, since
// a zero basis would make the product unusable.
func ProductFromLabelScan(userID uint, scan *domain.LabelScan, catalog *domain.Catalog, now time.Time) (*domain.Product, error) {
	if scan == nil || scan.Name == "" {
		return nil, fmt.Errorf("%w: label scan is incomplete", domain.ErrEstimationFailed)
	}
	ref := scan.ReferenceAmount
	if ref <= 0 {
		ref = domain.DefaultReferenceAmount
	}
	unit := scan.ReferenceUnit
	if !unit.Valid() {
		unit = domain.UnitGram
	}
	nutrients, _ := MapMicronutrients(scan.Micronutrients, catalog)
	product := &domain.Product{
		UserID:          userID,
		Name:            scan.Name,
		Brand:           scan.Brand,
		ReferenceAmount: ref,
		ReferenceUnit:   unit,
		Calories:        scan.Calories,
		Protein:         scan.Protein,
		Carbohydrates:   scan.Carbohydrates,
		Fat:             scan.Fat,
		SaturatedFat:    clonePtr(scan.SaturatedFat),
		Fibre:           clonePtr(scan.Fibre),
		NaturalSugar:    clonePtr(scan.NaturalSugar),
		AddedSugar:      clonePtr(scan.AddedSugar),
		Sodium:          clonePtr(scan.Sodium),
		Cholesterol:     clonePtr(scan.Cholesterol),
		PortionSize:     clonePtr(scan.PortionSize),
		Nutrients:       nutrients,
		IsCustom:        true,
		DateAdded:       now,
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEstimationFailed, err)
	}
	return product, nil
}

// TemplateFromEstimate snapshots an estimate for reuse under its normalized
// name. The canonical amount is the estimated amount; later quick-adds scale
// from it.
func TemplateFromEstimate(userID uint, est *domain.FoodEstimate, prompt string, catalog *domain.Catalog, now time.Time) (*domain.FoodTemplate, error) {
	if est == nil || est.Name == "" || est.Amount <= 0 {
		return nil, fmt.Errorf("%w: estimate is incomplete", domain.ErrEstimationFailed)
	}
	unit := est.Unit
	if !unit.Valid() {
		unit = domain.UnitGram
	}
	micros, _ := MapMicronutrients(est.Micronutrients, catalog)
	return &domain.FoodTemplate{
		UserID:         userID,
		NormalizedName: domain.NormalizeFoodName(est.Name),
		Name:           est.Name,
		Amount:         est.Amount,
		Unit:           unit,
		Calories:       est.Calories,
		Protein:        est.Protein,
		Carbohydrates:  est.Carbohydrates,
		Fat:            est.Fat,
		Sugar:          clonePtr(est.Sugar),
		NaturalSugar:   clonePtr(est.NaturalSugar),
		AddedSugar:     clonePtr(est.AddedSugar),
		Fibre:          clonePtr(est.Fibre),
		Sodium:         clonePtr(est.Sodium),
		Micronutrients: micros,
		LastUsed:       now,
		AIPrompt:       prompt,
	}, nil
}

// OverrideFromAnalysis validates a whole-day analysis into the record stored
// on the day log.
func OverrideFromAnalysis(analysis *domain.DayAnalysis, catalog *domain.Catalog) (domain.NutrientRecord, []string, error) {
	if analysis == nil || len(analysis.Micronutrients) == 0 {
		return nil, nil, fmt.Errorf("%w: analysis carries no nutrients", domain.ErrEstimationFailed)
	}
	record, dropped := MapMicronutrients(analysis.Micronutrients, catalog)
	if len(record) == 0 {
		return nil, dropped, fmt.Errorf("%w: analysis carries no usable nutrients", domain.ErrEstimationFailed)
	}
	return record, dropped, nil
}

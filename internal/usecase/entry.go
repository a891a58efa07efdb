package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// NewEntryFromProduct freezes an as-consumed snapshot for amount units of a
// product. Every nutrition value is scaled from the product's reference
// basis; optional values the product does not know stay unknown on the
// entry. The product itself is not touched and nothing is persisted here.
func NewEntryFromProduct(product *domain.Product, amount float64, unit domain.Unit, at time.Time) (*domain.FoodEntry, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, domain.ErrInvalidAmount
	}
	if unit == "" {
		unit = product.ReferenceUnit
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: unit %q is not supported", domain.ErrValidation, unit)
	}

	ref := product.ReferenceAmount
	entry := &domain.FoodEntry{
		Timestamp:     at,
		Amount:        amount,
		Unit:          unit,
		Calories:      Scale(product.Calories, ref, amount),
		Protein:       Scale(product.Protein, ref, amount),
		Carbohydrates: Scale(product.Carbohydrates, ref, amount),
		Fat:           Scale(product.Fat, ref, amount),
		NaturalSugar:  ScaleOptional(product.NaturalSugar, ref, amount),
		AddedSugar:    ScaleOptional(product.AddedSugar, ref, amount),
		Fibre:         ScaleOptional(product.Fibre, ref, amount),
		Sodium:        ScaleOptional(product.Sodium, ref, amount),
	}
	if product.ID != 0 {
		id := product.ID
		entry.ProductID = &id
	}
	return entry, nil
}

// NewEntryFromEstimate turns an AI estimate into an entry. Estimate values
// are already as-consumed, so they are copied rather than scaled; fields the
// estimate omitted stay absent instead of becoming zero.
func NewEntryFromEstimate(est *domain.FoodEstimate, prompt string, at time.Time) (*domain.FoodEntry, error) {
	if est == nil || est.Name == "" || est.Amount <= 0 || est.Calories < 0 {
		return nil, fmt.Errorf("%w: estimate is incomplete", domain.ErrEstimationFailed)
	}
	unit := est.Unit
	if unit == "" {
		unit = domain.UnitGram
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: estimate uses unit %q", domain.ErrEstimationFailed, est.Unit)
	}
	return &domain.FoodEntry{
		Timestamp:      at,
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
		AIGenerated:    true,
		CustomFoodName: est.Name,
		AIPrompt:       prompt,
	}, nil
}

// NewEntryFromTemplate builds an entry from a cached template snapshot,
// proportionally scaled from the template's canonical amount to the
// requested one. amount 0 means log the canonical amount as-is.
func NewEntryFromTemplate(tpl *domain.FoodTemplate, amount float64, at time.Time) (*domain.FoodEntry, error) {
	if amount == 0 {
		amount = tpl.Amount
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, domain.ErrInvalidAmount
	}
	ref := tpl.Amount
	return &domain.FoodEntry{
		Timestamp:      at,
		Amount:         amount,
		Unit:           tpl.Unit,
		Calories:       Scale(tpl.Calories, ref, amount),
		Protein:        Scale(tpl.Protein, ref, amount),
		Carbohydrates:  Scale(tpl.Carbohydrates, ref, amount),
		Fat:            Scale(tpl.Fat, ref, amount),
		Sugar:          ScaleOptional(tpl.Sugar, ref, amount),
		NaturalSugar:   ScaleOptional(tpl.NaturalSugar, ref, amount),
		AddedSugar:     ScaleOptional(tpl.AddedSugar, ref, amount),
		Fibre:          ScaleOptional(tpl.Fibre, ref, amount),
		Sodium:         ScaleOptional(tpl.Sodium, ref, amount),
		AIGenerated:    true,
		CustomFoodName: tpl.Name,
		AIPrompt:       tpl.AIPrompt,
	}, nil
}

// AdjustAmount applies a stepper delta to an entry. The new amount is
// clamped to [1, 5000] for g and ml, [1, 100] for pieces; every stored
// nutrition field is re-derived from the entry's own per-unit rate, so the
// source product is never re-read and entries detached from their product
// keep working.
func AdjustAmount(entry *domain.FoodEntry, delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return domain.ErrInvalidAmount
	}
	target := entry.Amount + delta
	if target < domain.MinEntryAmount {
		target = domain.MinEntryAmount
	}
	if max := domain.MaxAmountFor(entry.Unit); target > max {
		target = max
	}
	return rescaleEntry(entry, target)
}

// SetAmount moves an entry to an absolute amount with the same proportional
// re-scale as AdjustAmount, but without clamping. Non-positive or non-finite
// amounts are rejected and the entry is left untouched.
func SetAmount(entry *domain.FoodEntry, amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.ErrInvalidAmount
	}
	return rescaleEntry(entry, amount)
}

// rescaleEntry multiplies every stored value by newAmount/oldAmount. Setting
// the current amount again is exact: a factor of 1 reproduces every field
// bit for bit.
func rescaleEntry(entry *domain.FoodEntry, newAmount float64) error {
	if entry.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	factor := newAmount / entry.Amount
	entry.Calories *= factor
	entry.Protein *= factor
	entry.Carbohydrates *= factor
	entry.Fat *= factor
	scaleInPlace(entry.Sugar, factor)
	scaleInPlace(entry.NaturalSugar, factor)
	scaleInPlace(entry.AddedSugar, factor)
	scaleInPlace(entry.Fibre, factor)
	scaleInPlace(entry.Sodium, factor)
	entry.Amount = newAmount
	return nil
}

func scaleInPlace(v *float64, factor float64) {
	if v != nil {
		*v *= factor
	}
}

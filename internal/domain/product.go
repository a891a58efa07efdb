package domain

import (
	"fmt"
	"math"
	"time"
)

// Unit is the measurement basis for reference amounts and logged amounts.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "piece"
)

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// DefaultReferenceAmount is the per-100 basis nearly all label data uses.
const DefaultReferenceAmount = 100.0

// Product is a food item users log against. All nutrition values are stated
// per ReferenceAmount of ReferenceUnit; required macros are plain values,
// everything a label may omit is a pointer where nil means unknown. Unknown
// is never collapsed to zero before a day total is summed.
type Product struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  uint    `gorm:"not null;uniqueIndex:uidx_user_barcode" json:"-"`
	Name    string  `gorm:"not null" json:"name"`
	Brand   string  `json:"brand,omitempty"`
	Barcode *string `gorm:"uniqueIndex:uidx_user_barcode" json:"barcode,omitempty"` // unique per user when present

	ReferenceAmount float64 `gorm:"not null;default:100" json:"referenceAmount"`
	ReferenceUnit   Unit    `gorm:"not null;default:g" json:"referenceUnit"`

	Calories      float64 `gorm:"not null" json:"calories"` // kcal per reference amount
	Protein       float64 `json:"protein"`                  // grams
	Carbohydrates float64 `json:"carbohydrates"`            // grams
	Fat           float64 `json:"fat"`                      // grams

	SaturatedFat *float64 `json:"saturatedFat,omitempty"` // grams
	Fibre        *float64 `json:"fibre,omitempty"`        // grams
	NaturalSugar *float64 `json:"naturalSugar,omitempty"` // grams
	AddedSugar   *float64 `json:"addedSugar,omitempty"`   // grams
	Sodium       *float64 `json:"sodium,omitempty"`       // milligrams
	Cholesterol  *float64 `json:"cholesterol,omitempty"`  // milligrams

	PortionSize        *float64 `json:"portionSize,omitempty"` // suggested single portion in ReferenceUnit
	PortionsPerPackage *float64 `json:"portionsPerPackage,omitempty"`

	Nutrients NutrientRecord `gorm:"serializer:json" json:"nutrients,omitempty"` // vitamins and minerals per 100 reference units

	ImageURL  string    `json:"imageUrl,omitempty"`
	IsCustom  bool      `json:"isCustom"` // user-created vs external lookup
	DateAdded time.Time `json:"dateAdded"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TotalSugar returns naturalSugar + addedSugar when at least one is known.
// Informational only; the parts stay authoritative.
func (p *Product) TotalSugar() (float64, bool) {
	if p.NaturalSugar == nil && p.AddedSugar == nil {
		return 0, false
	}
	var total float64
	if p.NaturalSugar != nil {
		total += *p.NaturalSugar
	}
	if p.AddedSugar != nil {
		total += *p.AddedSugar
	}
	return total, true
}

// Validate checks the invariants every stored product must hold. A product
// with a non-positive reference amount must never be created: every scaling
// computation divides by it.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.ReferenceAmount <= 0 || math.IsNaN(p.ReferenceAmount) || math.IsInf(p.ReferenceAmount, 0) {
		return fmt.Errorf("%w: referenceAmount must be positive", ErrValidation)
	}
	if !p.ReferenceUnit.Valid() {
		return fmt.Errorf("%w: referenceUnit %q is not supported", ErrValidation, p.ReferenceUnit)
	}
	if p.Barcode != nil && *p.Barcode == "" {
		return fmt.Errorf("%w: barcode must not be empty when set", ErrValidation)
	}
	for name, v := range map[string]float64{
		"calories":      p.Calories,
		"protein":       p.Protein,
		"carbohydrates": p.Carbohydrates,
		"fat":           p.Fat,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrValidation, name)
		}
	}
	for name, v := range map[string]*float64{
		"saturatedFat": p.SaturatedFat,
		"fibre":        p.Fibre,
		"naturalSugar": p.NaturalSugar,
		"addedSugar":   p.AddedSugar,
		"sodium":       p.Sodium,
		"cholesterol":  p.Cholesterol,
	} {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrValidation, name)
		}
	}
	return nil
}

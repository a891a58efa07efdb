package domain

import "time"

// Amount bounds enforced when an entry amount is adjusted via stepper deltas.
const (
	MinEntryAmount      = 1.0
	MaxEntryAmountGrams = 5000.0 // also ml
	MaxEntryAmountPiece = 100.0
)

// MaxAmountFor returns the clamp ceiling for a unit.
func MaxAmountFor(unit Unit) float64 {
	if unit == UnitPiece {
		return MaxEntryAmountPiece
	}
	return MaxEntryAmountGrams
}

// FoodEntry is one logged consumption event. Nutrition fields are frozen
// as-consumed values computed at logging time; editing the source product
// later never changes an existing entry. ProductID is a weak reference:
// deleting the product leaves the entry intact with the pointer cleared.
type FoodEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LogID     uint      `gorm:"not null;index" json:"logId"`
	ProductID *uint     `gorm:"index" json:"productId,omitempty"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	Amount float64 `gorm:"not null" json:"amount"`
	Unit   Unit    `gorm:"not null" json:"unit"`

	Calories      float64 `gorm:"not null" json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`

	Sugar        *float64 `json:"sugar,omitempty"` // total sugar when only the total is known
	NaturalSugar *float64 `json:"naturalSugar,omitempty"`
	AddedSugar   *float64 `json:"addedSugar,omitempty"`
	Fibre        *float64 `json:"fibre,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"` // milligrams

	AIGenerated    bool   `json:"aiGenerated"`
	CustomFoodName string `json:"customFoodName,omitempty"` // display name when no product is attached
	AIPrompt       string `json:"aiPrompt,omitempty"`       // original user description for AI entries

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

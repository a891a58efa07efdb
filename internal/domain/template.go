package domain

import (
	"strings"
	"time"
)

// FoodTemplate caches one AI estimate per normalized food name so repeated
// quick-adds of the same food skip the estimator. The snapshot is stored for
// a canonical amount and re-scaled proportionally when logged.
type FoodTemplate struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;uniqueIndex:uidx_user_template" json:"-"`
	NormalizedName string `gorm:"not null;uniqueIndex:uidx_user_template" json:"-"`
	Name           string `gorm:"not null" json:"name"`

	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`

	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`

	Sugar        *float64 `json:"sugar,omitempty"`
	NaturalSugar *float64 `json:"naturalSugar,omitempty"`
	AddedSugar   *float64 `json:"addedSugar,omitempty"`
	Fibre        *float64 `json:"fibre,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"`

	Micronutrients NutrientRecord `gorm:"serializer:json" json:"micronutrients,omitempty"`

	LastUsed time.Time `gorm:"not null" json:"lastUsed"`
	AIPrompt string    `json:"aiPrompt,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NormalizeFoodName lowercases and collapses inner whitespace so
// "Greek  Yogurt " and "greek yogurt" share one template slot.
func NormalizeFoodName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

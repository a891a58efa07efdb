package domain

import "time"

// DayLog holds one calendar day of logged food for a user, plus the macro
// targets and limits that were in force when the day was opened. Historical
// logs keep their snapshot when the user later changes targets; only logs
// for today or future dates are resynced.
type DayLog struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:uidx_user_day" json:"-"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_day" json:"date"`

	CalorieTarget float64 `json:"calorieTarget"`
	ProteinTarget float64 `json:"proteinTarget"`
	CarbTarget    float64 `json:"carbTarget"`
	FatTarget     float64 `json:"fatTarget"`
	SugarLimit    float64 `json:"sugarLimit"`  // grams of added sugar
	SodiumLimit   float64 `json:"sodiumLimit"` // milligrams

	Entries []FoodEntry `gorm:"foreignKey:LogID;constraint:OnDelete:CASCADE" json:"entries"`

	// MicroOverrides holds the whole-day AI micronutrient estimate. While
	// AnalysisDate is set the override wins over per-product summation.
	MicroOverrides NutrientRecord `gorm:"serializer:json" json:"microOverrides,omitempty"`
	AnalysisDate   *time.Time     `json:"analysisDate,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AnalysisApplied reports whether a whole-day AI analysis is active.
func (l *DayLog) AnalysisApplied() bool {
	return l.AnalysisDate != nil
}

// DayOf truncates t to midnight in its own location. Day logs are keyed by
// this value, one per user and calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b.In(a.Location())))
}

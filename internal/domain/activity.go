package domain

import "time"

// BonusMode selects which activity calorie figure feeds exercise-adjusted
// limits.
type BonusMode string

const (
	BonusWorkoutsOnly BonusMode = "workouts-only"
	BonusAllActive    BonusMode = "all-active"
	BonusTotalBurned  BonusMode = "total-burned"
)

// Valid reports whether m is a supported mode.
func (m BonusMode) Valid() bool {
	switch m {
	case BonusWorkoutsOnly, BonusAllActive, BonusTotalBurned:
		return true
	}
	return false
}

// ActivitySnapshot is one day of device-reported activity for a user.
// Devices overwrite their own figures on every sync; ManualEarnedCalories is
// user-entered, additive with the device figure, and survives device syncs
// until explicitly cleared. Authorized false means the device figures carry
// no meaning and activity-derived bonuses must be zero.
type ActivitySnapshot struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	UserID uint      `gorm:"not null;uniqueIndex:uidx_user_activity_day" json:"-"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_activity_day" json:"date"`

	Steps           int     `json:"steps"`
	ActiveCalories  float64 `json:"activeCalories"`  // kcal from all movement
	WorkoutCalories float64 `json:"workoutCalories"` // kcal from logged workouts only
	TotalCalories   float64 `json:"totalCalories"`   // kcal including resting burn
	ExerciseMinutes int     `json:"exerciseMinutes"`
	Authorized      bool    `json:"authorized"`

	ManualEarnedCalories float64 `json:"manualEarnedCalories"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

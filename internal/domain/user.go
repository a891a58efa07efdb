package domain

import "time"

// Default targets and limits applied to new accounts until the user
// completes goal setup.
const (
	DefaultCalorieTarget = 2000.0
	DefaultProteinTarget = 120.0
	DefaultCarbTarget    = 250.0
	DefaultFatTarget     = 70.0
	DefaultSugarLimit    = 50.0   // grams of added sugar
	DefaultSodiumLimit   = 2300.0 // milligrams
)

// User is an account with its current macro targets and limit settings.
// Day logs snapshot these values when a day is opened; see DayLog.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`

	CalorieTarget float64 `gorm:"not null;default:2000" json:"calorieTarget"`
	ProteinTarget float64 `gorm:"not null;default:120" json:"proteinTarget"`
	CarbTarget    float64 `gorm:"not null;default:250" json:"carbTarget"`
	FatTarget     float64 `gorm:"not null;default:70" json:"fatTarget"`
	SugarLimit    float64 `gorm:"not null;default:50" json:"sugarLimit"`
	SodiumLimit   float64 `gorm:"not null;default:2300" json:"sodiumLimit"`

	BonusMode BonusMode `gorm:"not null;default:workouts-only" json:"bonusMode"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

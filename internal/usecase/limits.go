package usecase

import "github.com/prohanzla/CalorieTracker-sub000/internal/domain"

// Sodium-to-salt conversion: table salt is about 40% sodium by weight, so
// 1 g of salt carries 400 mg of sodium.
const sodiumMgPerSaltGram = 400.0

// BonusFactors convert earned exercise calories into limit headroom, one
// factor per limited metric. With the defaults, burning 100 kcal buys 5 g
// of added sugar and 100 mg of sodium.
type BonusFactors struct {
	SugarGramsPerKcal float64
	SodiumMgPerKcal   float64
}

// DefaultBonusFactors returns the shipped conversion factors.
func DefaultBonusFactors() BonusFactors {
	return BonusFactors{
		SugarGramsPerKcal: 0.05,
		SodiumMgPerKcal:   1.0,
	}
}

// AdjustedLimit is a base limit raised by an exercise bonus.
type AdjustedLimit struct {
	Base  float64 `json:"base"`
	Bonus float64 `json:"bonus"`
	Limit float64 `json:"limit"`
}

// EarnedCalories returns the kcal figure feeding exercise bonuses for the
// selected mode. Device-reported figures count only while the snapshot is
// authorized; the manually entered figure is user-owned and counts always,
// additively.
func EarnedCalories(mode domain.BonusMode, activity *domain.ActivitySnapshot) float64 {
	if activity == nil {
		return 0
	}
	earned := activity.ManualEarnedCalories
	if activity.Authorized {
		switch mode {
		case domain.BonusAllActive:
			earned += activity.ActiveCalories
		case domain.BonusTotalBurned:
			earned += activity.TotalCalories
		default:
			earned += activity.WorkoutCalories
		}
	}
	if earned < 0 {
		return 0
	}
	return earned
}

// AdjustLimit raises base by earnedCalories converted at factor units per
// kcal. The bonus adds 1:1 on top of the base; it never tightens a limit.
func AdjustLimit(base, earnedCalories, factor float64) AdjustedLimit {
	bonus := earnedCalories * factor
	if bonus < 0 {
		bonus = 0
	}
	return AdjustedLimit{Base: base, Bonus: bonus, Limit: base + bonus}
}

// SaltGrams converts a sodium total in milligrams to grams of table salt.
func SaltGrams(sodiumMg float64) float64 {
	return sodiumMg / sodiumMgPerSaltGram
}

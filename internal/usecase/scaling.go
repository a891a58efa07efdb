package usecase

import "math"

// Scale converts a nutrition value stated per referenceAmount into the value
// for consumedAmount. A non-positive reference basis yields 0 instead of an
// error: one broken product must not poison a whole day total.
func Scale(value, referenceAmount, consumedAmount float64) float64 {
	if referenceAmount <= 0 {
		return 0
	}
	return value / referenceAmount * consumedAmount
}

// ScaleOptional scales a possibly-unknown value. Unknown stays unknown.
func ScaleOptional(value *float64, referenceAmount, consumedAmount float64) *float64 {
	if value == nil {
		return nil
	}
	v := Scale(*value, referenceAmount, consumedAmount)
	return &v
}

// InferredGrams estimates how many grams (or ml) of a product an entry
// covered, from the share of the product's reference calories the entry
// accounts for: (entryCalories / productCalories) * referenceAmount.
// This is the only way to ground piece-based entries in a weight. Products
// without calorie data cannot anchor the ratio, so the result is 0 and the
// entry contributes nothing.
func InferredGrams(entryCalories, productCalories, referenceAmount float64) float64 {
	if productCalories <= 0 {
		return 0
	}
	return entryCalories / productCalories * referenceAmount
}

// RoundTo rounds v to places decimal places.
func RoundTo(v float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(v*f) / f
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

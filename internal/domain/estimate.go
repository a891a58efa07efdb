package domain

// FoodEstimate is the structured result of a free-text food estimation.
// Values are as-consumed for the estimated amount, not per-100. Pointer
// fields are nil when the model omitted them; the mapper copies only what
// is present and never fills gaps with zeros.
type FoodEstimate struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Unit          Unit    `json:"unit"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`

	Sugar        *float64 `json:"sugar,omitempty"`
	NaturalSugar *float64 `json:"naturalSugar,omitempty"`
	AddedSugar   *float64 `json:"addedSugar,omitempty"`
	Fibre        *float64 `json:"fibre,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"`

	// Micronutrients carries raw model keys; the mapper validates them
	// against the catalog and drops anything unknown.
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`

	Confidence float64 `json:"confidence"` // 0..1
	Notes      string  `json:"notes,omitempty"`
}

// LabelScan is the structured result of reading a nutrition label photo.
// Values are per ReferenceAmount of ReferenceUnit, ready to become a Product.
type LabelScan struct {
	Name            string  `json:"name"`
	Brand           string  `json:"brand,omitempty"`
	ReferenceAmount float64 `json:"referenceAmount"`
	ReferenceUnit   Unit    `json:"referenceUnit"`

	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`

	SaturatedFat *float64 `json:"saturatedFat,omitempty"`
	Fibre        *float64 `json:"fibre,omitempty"`
	NaturalSugar *float64 `json:"naturalSugar,omitempty"`
	AddedSugar   *float64 `json:"addedSugar,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty"`
	Cholesterol  *float64 `json:"cholesterol,omitempty"`

	PortionSize *float64 `json:"portionSize,omitempty"`

	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}

// EntrySummary is the minimal per-entry description sent to the whole-day
// analyzer.
type EntrySummary struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     Unit    `json:"unit"`
	Calories float64 `json:"calories"`
}

// DayAnalysis is the whole-day micronutrient estimate produced by the AI
// from the day's entry summaries. Totals are day totals, raw model keys.
type DayAnalysis struct {
	Micronutrients map[string]float64 `json:"micronutrients"`
	Notes          string             `json:"notes,omitempty"`
}

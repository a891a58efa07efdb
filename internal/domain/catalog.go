package domain

import (
	"errors"
	"fmt"
)

// NutrientID is the stable string key of a tracked micronutrient.
// The set of valid ids is closed: every id lives in the builtin catalog
// table below, and records are validated against it at construction time.
type NutrientID string

// Vitamin ids.
const (
	NutrientVitaminA   NutrientID = "vitamin_a"
	NutrientVitaminB1  NutrientID = "vitamin_b1"
	NutrientVitaminB2  NutrientID = "vitamin_b2"
	NutrientVitaminB3  NutrientID = "vitamin_b3"
	NutrientVitaminB5  NutrientID = "vitamin_b5"
	NutrientVitaminB6  NutrientID = "vitamin_b6"
	NutrientVitaminB7  NutrientID = "vitamin_b7"
	NutrientVitaminB9  NutrientID = "vitamin_b9"
	NutrientVitaminB12 NutrientID = "vitamin_b12"
	NutrientVitaminC   NutrientID = "vitamin_c"
	NutrientVitaminD   NutrientID = "vitamin_d"
	NutrientVitaminE   NutrientID = "vitamin_e"
	NutrientVitaminK   NutrientID = "vitamin_k"
)

// Mineral ids.
const (
	NutrientCalcium    NutrientID = "calcium"
	NutrientChloride   NutrientID = "chloride"
	NutrientChromium   NutrientID = "chromium"
	NutrientCopper     NutrientID = "copper"
	NutrientIodine     NutrientID = "iodine"
	NutrientIron       NutrientID = "iron"
	NutrientMagnesium  NutrientID = "magnesium"
	NutrientManganese  NutrientID = "manganese"
	NutrientMolybdenum NutrientID = "molybdenum"
	NutrientPhosphorus NutrientID = "phosphorus"
	NutrientPotassium  NutrientID = "potassium"
	NutrientSelenium   NutrientID = "selenium"
	NutrientZinc       NutrientID = "zinc"
)

// NutrientCategory groups catalog entries for dashboard sectioning.
type NutrientCategory string

const (
	CategoryVitamin NutrientCategory = "vitamin"
	CategoryMineral NutrientCategory = "mineral"
)

// NutrientDefinition describes one tracked vitamin or mineral: how it is
// displayed and the daily target the progress ratio is computed against.
type NutrientDefinition struct {
	ID            NutrientID       `json:"id"`
	Name          string           `json:"name"`
	ShortName     string           `json:"shortName"`
	Unit          string           `json:"unit"` // mg or µg
	Target        float64          `json:"target"`
	UpperLimit    *float64         `json:"upperLimit,omitempty"` // safety ceiling, nil when none is established
	DecimalPlaces int              `json:"decimalPlaces"`
	Category      NutrientCategory `json:"category"`
}

// Catalog is the closed registry of nutrient definitions. It is built once
// at startup and never mutated afterwards; lookups are safe for concurrent use.
type Catalog struct {
	defs  map[NutrientID]NutrientDefinition
	order []NutrientID
}

// NewCatalog validates the definition table and builds the registry.
// Duplicate ids, non-positive targets and unknown categories are rejected.
func NewCatalog(defs []NutrientDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:  make(map[NutrientID]NutrientDefinition, len(defs)),
		order: make([]NutrientID, 0, len(defs)),
	}
	for _, def := range defs {
		if def.ID == "" {
			return nil, errors.New("catalog: empty nutrient id")
		}
		if _, dup := c.defs[def.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate nutrient id %q", def.ID)
		}
		if def.Target <= 0 {
			return nil, fmt.Errorf("catalog: nutrient %q has non-positive target", def.ID)
		}
		if def.UpperLimit != nil && *def.UpperLimit <= def.Target {
			return nil, fmt.Errorf("catalog: nutrient %q upper limit below target", def.ID)
		}
		if def.DecimalPlaces < 0 {
			return nil, fmt.Errorf("catalog: nutrient %q has negative decimal places", def.ID)
		}
		if def.Category != CategoryVitamin && def.Category != CategoryMineral {
			return nil, fmt.Errorf("catalog: nutrient %q has unknown category %q", def.ID, def.Category)
		}
		c.defs[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

// Get returns the definition for id.
func (c *Catalog) Get(id NutrientID) (NutrientDefinition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// Has reports whether id is part of the catalog.
func (c *Catalog) Has(id NutrientID) bool {
	_, ok := c.defs[id]
	return ok
}

// IDs returns all nutrient ids in their fixed display order.
func (c *Catalog) IDs() []NutrientID {
	out := make([]NutrientID, len(c.order))
	copy(out, c.order)
	return out
}

// Definitions returns all definitions in their fixed display order.
func (c *Catalog) Definitions() []NutrientDefinition {
	out := make([]NutrientDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.order)
}

func float64Ptr(v float64) *float64 { return &v }

// builtinNutrients is the bundled catalog. Targets follow EU NRV-style
// daily reference intakes; upper limits are tolerable-intake ceilings.
var builtinNutrients = []NutrientDefinition{
	{ID: NutrientVitaminA, Name: "Vitamin A", ShortName: "A", Unit: "µg", Target: 800, UpperLimit: float64Ptr(3000), DecimalPlaces: 0, Category: CategoryVitamin},
	{ID: NutrientVitaminB1, Name: "Vitamin B1 (Thiamine)", ShortName: "B1", Unit: "mg", Target: 1.1, DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminB2, Name: "Vitamin B2 (Riboflavin)", ShortName: "B2", Unit: "mg", Target: 1.4, DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminB3, Name: "Vitamin B3 (Niacin)", ShortName: "B3", Unit: "mg", Target: 16, UpperLimit: float64Ptr(35), DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminB5, Name: "Vitamin B5 (Pantothenic Acid)", ShortName: "B5", Unit: "mg", Target: 6, DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminB6, Name: "Vitamin B6", ShortName: "B6", Unit: "mg", Target: 1.4, UpperLimit: float64Ptr(25), DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminB7, Name: "Vitamin B7 (Biotin)", ShortName: "B7", Unit: "µg", Target: 50, DecimalPlaces: 0, Category: CategoryVitamin},
	{ID: NutrientVitaminB9, Name: "Vitamin B9 (Folate)", ShortName: "B9", Unit: "µg", Target: 200, UpperLimit: float64Ptr(1000), DecimalPlaces: 0, Category: CategoryVitamin},
	{ID: NutrientVitaminB12, Name: "Vitamin B12", ShortName: "B12", Unit: "µg", Target: 2.5, DecimalPlaces: 2, Category: CategoryVitamin},
	{ID: NutrientVitaminC, Name: "Vitamin C", ShortName: "C", Unit: "mg", Target: 80, UpperLimit: float64Ptr(1000), DecimalPlaces: 0, Category: CategoryVitamin},
	{ID: NutrientVitaminD, Name: "Vitamin D", ShortName: "D", Unit: "µg", Target: 20, UpperLimit: float64Ptr(100), DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminE, Name: "Vitamin E", ShortName: "E", Unit: "mg", Target: 12, UpperLimit: float64Ptr(300), DecimalPlaces: 1, Category: CategoryVitamin},
	{ID: NutrientVitaminK, Name: "Vitamin K", ShortName: "K", Unit: "µg", Target: 75, DecimalPlaces: 0, Category: CategoryVitamin},

	{ID: NutrientCalcium, Name: "Calcium", ShortName: "Ca", Unit: "mg", Target: 800, UpperLimit: float64Ptr(2500), DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientChloride, Name: "Chloride", ShortName: "Cl", Unit: "mg", Target: 800, DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientChromium, Name: "Chromium", ShortName: "Cr", Unit: "µg", Target: 40, DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientCopper, Name: "Copper", ShortName: "Cu", Unit: "mg", Target: 1, UpperLimit: float64Ptr(5), DecimalPlaces: 1, Category: CategoryMineral},
	{ID: NutrientIodine, Name: "Iodine", ShortName: "I", Unit: "µg", Target: 150, UpperLimit: float64Ptr(600), DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientIron, Name: "Iron", ShortName: "Fe", Unit: "mg", Target: 14, UpperLimit: float64Ptr(45), DecimalPlaces: 1, Category: CategoryMineral},
	{ID: NutrientMagnesium, Name: "Magnesium", ShortName: "Mg", Unit: "mg", Target: 375, DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientManganese, Name: "Manganese", ShortName: "Mn", Unit: "mg", Target: 2, DecimalPlaces: 1, Category: CategoryMineral},
	{ID: NutrientMolybdenum, Name: "Molybdenum", ShortName: "Mo", Unit: "µg", Target: 50, UpperLimit: float64Ptr(600), DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientPhosphorus, Name: "Phosphorus", ShortName: "P", Unit: "mg", Target: 700, DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientPotassium, Name: "Potassium", ShortName: "K", Unit: "mg", Target: 2000, DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientSelenium, Name: "Selenium", ShortName: "Se", Unit: "µg", Target: 55, UpperLimit: float64Ptr(300), DecimalPlaces: 0, Category: CategoryMineral},
	{ID: NutrientZinc, Name: "Zinc", ShortName: "Zn", Unit: "mg", Target: 10, UpperLimit: float64Ptr(25), DecimalPlaces: 1, Category: CategoryMineral},
}

var defaultCatalog = func() *Catalog {
	c, err := NewCatalog(builtinNutrients)
	if err != nil {
		panic("domain: builtin nutrient table invalid: " + err.Error())
	}
	return c
}()

// DefaultCatalog returns the bundled nutrient registry.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

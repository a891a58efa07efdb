package openfoodfacts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// Record is the subset of an Open Food Facts product payload the mapper
// reads. Nutriment base values are grams per 100g (or per 100ml for
// beverages, see NutritionDataPer).
type Record struct {
	Code             string         `json:"code"`
	ProductName      string         `json:"product_name"`
	ProductNameEn    string         `json:"product_name_en"`
	GenericName      string         `json:"generic_name"`
	Brands           string         `json:"brands"`
	ImageURL         string         `json:"image_url"`
	NutritionDataPer string         `json:"nutrition_data_per"`
	ServingQuantity  any            `json:"serving_quantity"`
	Nutriments       map[string]any `json:"nutriments"`
}

// offMicronutrients maps Open Food Facts nutriment keys to catalog ids.
// Open Food Facts reports every base value in grams; mapping converts to
// the unit the catalog tracks the nutrient in.
var offMicronutrients = map[string]domain.NutrientID{
	"vitamin-a":        domain.NutrientVitaminA,
	"vitamin-b1":       domain.NutrientVitaminB1,
	"vitamin-b2":       domain.NutrientVitaminB2,
	"vitamin-pp":       domain.NutrientVitaminB3,
	"pantothenic-acid": domain.NutrientVitaminB5,
	"vitamin-b6":       domain.NutrientVitaminB6,
	"biotin":           domain.NutrientVitaminB7,
	"vitamin-b9":       domain.NutrientVitaminB9,
	"vitamin-b12":      domain.NutrientVitaminB12,
	"vitamin-c":        domain.NutrientVitaminC,
	"vitamin-d":        domain.NutrientVitaminD,
	"vitamin-e":        domain.NutrientVitaminE,
	"vitamin-k":        domain.NutrientVitaminK,
	"calcium":          domain.NutrientCalcium,
	"chloride":         domain.NutrientChloride,
	"chromium":         domain.NutrientChromium,
	"copper":           domain.NutrientCopper,
	"iodine":           domain.NutrientIodine,
	"iron":             domain.NutrientIron,
	"magnesium":        domain.NutrientMagnesium,
	"manganese":        domain.NutrientManganese,
	"molybdenum":       domain.NutrientMolybdenum,
	"phosphorus":       domain.NutrientPhosphorus,
	"potassium":        domain.NutrientPotassium,
	"selenium":         domain.NutrientSelenium,
	"zinc":             domain.NutrientZinc,
}

// MapProduct converts an Open Food Facts record into a draft product on a
// per-100 basis. Records without a name or any energy figure are unusable
// and come back as ErrProductNotFound.
func MapProduct(rec *Record) (*domain.Product, error) {
	name := rec.Name()
	if name == "" {
		return nil, fmt.Errorf("%w: record has no name", domain.ErrProductNotFound)
	}
	calories, ok := rec.kcalPer100()
	if !ok {
		return nil, fmt.Errorf("%w: record has no energy data", domain.ErrProductNotFound)
	}

	product := &domain.Product{
		Name:            name,
		Brand:           firstBrand(rec.Brands),
		ReferenceAmount: domain.DefaultReferenceAmount,
		ReferenceUnit:   rec.referenceUnit(),
		Calories:        calories,
		Protein:         rec.gramsOrZero("proteins"),
		Carbohydrates:   rec.gramsOrZero("carbohydrates"),
		Fat:             rec.gramsOrZero("fat"),
		ImageURL:        rec.ImageURL,
	}

	product.SaturatedFat = rec.grams("saturated-fat")
	product.Fibre = rec.grams("fiber")
	product.Cholesterol = rec.milligrams("cholesterol")
	product.Sodium = rec.sodiumMilligrams()
	product.NaturalSugar, product.AddedSugar = rec.sugars()

	if qty, ok := toFloat(rec.ServingQuantity); ok && qty > 0 {
		product.PortionSize = &qty
	}
	if micros := rec.micronutrients(); len(micros) > 0 {
		product.Nutrients = micros
	}

	return product, nil
}

// Name returns the best available product name: product_name, then
// product_name_en, then generic_name.
func (r *Record) Name() string {
	for _, name := range []string{r.ProductName, r.ProductNameEn, r.GenericName} {
		if name != "" {
			return name
		}
	}
	return ""
}

// nutriment reads a per-100 figure, rejecting negative and non-finite
// values.
func (r *Record) nutriment(key string) (float64, bool) {
	v, ok := toFloat(r.Nutriments[key+"_100g"])
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// kcalPer100 prefers the kcal figure and falls back to converting
// kilojoules.
func (r *Record) kcalPer100() (float64, bool) {
	if v, ok := r.nutriment("energy-kcal"); ok {
		return v, true
	}
	if v, ok := r.nutriment("energy-kj"); ok {
		return v / 4.184, true
	}
	return 0, false
}

func (r *Record) gramsOrZero(key string) float64 {
	v, _ := r.nutriment(key)
	return v
}

func (r *Record) grams(key string) *float64 {
	if v, ok := r.nutriment(key); ok {
		return &v
	}
	return nil
}

func (r *Record) milligrams(key string) *float64 {
	if v, ok := r.nutriment(key); ok {
		mg := v * 1000
		return &mg
	}
	return nil
}

// sodiumMilligrams prefers the sodium figure and falls back to deriving it
// from salt (salt is sodium times 2.5).
func (r *Record) sodiumMilligrams() *float64 {
	if mg := r.milligrams("sodium"); mg != nil {
		return mg
	}
	if salt, ok := r.nutriment("salt"); ok {
		mg := salt / 2.5 * 1000
		return &mg
	}
	return nil
}

// sugars splits total sugars into natural and added. When the record only
// carries a total, the whole amount counts as natural sugar so the parts
// still sum to the label total.
func (r *Record) sugars() (natural, added *float64) {
	total, hasTotal := r.nutriment("sugars")
	addedV, hasAdded := r.nutriment("added-sugars")

	if hasAdded {
		added = &addedV
	}
	switch {
	case hasTotal && hasAdded:
		n := math.Max(total-addedV, 0)
		natural = &n
	case hasTotal:
		natural = &total
	}
	return natural, added
}

func (r *Record) referenceUnit() domain.Unit {
	if strings.EqualFold(r.NutritionDataPer, "100ml") {
		return domain.UnitMilliliter
	}
	return domain.UnitGram
}

// micronutrients converts the gram-based vitamin and mineral figures to
// catalog units.
func (r *Record) micronutrients() domain.NutrientRecord {
	record := domain.NutrientRecord{}
	for key, id := range offMicronutrients {
		grams, ok := r.nutriment(key)
		if !ok {
			continue
		}
		def, ok := domain.DefaultCatalog().Get(id)
		if !ok {
			continue
		}
		record.Set(id, grams*unitFactor(def.Unit))
	}
	if len(record) == 0 {
		return nil
	}
	return record
}

// unitFactor returns the multiplier from grams to the catalog unit.
func unitFactor(unit string) float64 {
	switch unit {
	case "mg":
		return 1e3
	case "µg":
		return 1e6
	}
	return 1
}

// toFloat coerces a JSON nutriment value; Open Food Facts mixes numbers and
// numeric strings.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// firstBrand takes the first entry of the comma separated brands field.
func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

package domain

import "fmt"

// NutrientRecord is a sparse nutrient snapshot keyed by catalog id. For a
// product the values are amounts per 100 reference units; for an AI override
// they are ready day totals. A missing key means the amount is unknown, which
// is different from a stored 0: unknowns stay absent until final summation.
type NutrientRecord map[NutrientID]float64

// NewNutrientRecord builds a record from raw values, rejecting ids that are
// not part of the catalog and negative amounts.
func NewNutrientRecord(values map[NutrientID]float64, catalog *Catalog) (NutrientRecord, error) {
	r := make(NutrientRecord, len(values))
	for id, amount := range values {
		if !catalog.Has(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNutrient, id)
		}
		if amount < 0 {
			return nil, fmt.Errorf("%w: %s is negative", ErrValidation, id)
		}
		r[id] = amount
	}
	return r, nil
}

// Get returns the stored amount and whether the nutrient is known at all.
func (r NutrientRecord) Get(id NutrientID) (float64, bool) {
	v, ok := r[id]
	return v, ok
}

// Set stores an amount for id. The receiver must be non-nil.
func (r NutrientRecord) Set(id NutrientID, amount float64) {
	r[id] = amount
}

// Clone returns an independent copy.
func (r NutrientRecord) Clone() NutrientRecord {
	if r == nil {
		return nil
	}
	out := make(NutrientRecord, len(r))
	for id, v := range r {
		out[id] = v
	}
	return out
}

// Scale returns a new record with every present amount multiplied by factor.
// Absent nutrients stay absent.
func (r NutrientRecord) Scale(factor float64) NutrientRecord {
	if r == nil {
		return nil
	}
	out := make(NutrientRecord, len(r))
	for id, v := range r {
		out[id] = v * factor
	}
	return out
}

// Merge returns a new record where values present in other win over values
// in r. Nutrients absent from both stay absent.
func (r NutrientRecord) Merge(other NutrientRecord) NutrientRecord {
	out := make(NutrientRecord, len(r)+len(other))
	for id, v := range r {
		out[id] = v
	}
	for id, v := range other {
		out[id] = v
	}
	return out
}

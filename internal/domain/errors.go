package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a product is neither stored locally
	// nor resolvable through the external lookup
	ErrProductNotFound = errors.New("product not found")

	// ErrEntryNotFound is returned when a food entry does not exist or belongs
	// to a different user
	ErrEntryNotFound = errors.New("food entry not found")

	// ErrLogNotFound is returned when no day log exists for the requested date
	ErrLogNotFound = errors.New("day log not found")

	// ErrTemplateNotFound is returned when no cached template matches a
	// normalized food name
	ErrTemplateNotFound = errors.New("food template not found")

	// ErrUserNotFound is returned when a user id has no row
	ErrUserNotFound = errors.New("user not found")

	// ErrEstimationFailed is returned when the AI estimator could not produce
	// a usable result; callers decide whether to retry
	ErrEstimationFailed = errors.New("estimation failed")

	// ErrInvalidAmount is returned when an amount change is non-positive or
	// non-finite; the operation is a no-op and prior state is retained
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownNutrient is returned when a nutrient id is not in the catalog
	ErrUnknownNutrient = errors.New("unknown nutrient id")

	// ErrDuplicateBarcode is returned when saving a product whose barcode is
	// already attached to another product
	ErrDuplicateBarcode = errors.New("barcode already in use")

	// ErrLookupFailed is returned when the external product lookup fails
	ErrLookupFailed = errors.New("product lookup failed")

	// ErrRateLimited is returned when an upstream service keeps answering 429
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrValidation is returned when request or entity fields fail validation
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnauthorized is returned when a request carries no valid token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrMediaDisabled is returned when image upload is requested but no
	// bucket is configured
	ErrMediaDisabled = errors.New("media storage not configured")
)

// DuplicateBarcodeError reports a barcode collision together with the product
// that already owns the barcode, so callers can offer the three-way choice:
// use the existing product, update it in place, or save as new without the
// barcode. It unwraps to ErrDuplicateBarcode.
type DuplicateBarcodeError struct {
	Existing *Product
}

func (e *DuplicateBarcodeError) Error() string {
	return fmt.Sprintf("barcode already in use by product %d", e.Existing.ID)
}

func (e *DuplicateBarcodeError) Unwrap() error {
	return ErrDuplicateBarcode
}

package domain

import "errors"

var (
	// ErrInvalidArgument is returned for malformed or out-of-range input such as a
	// non-positive quantity or an unknown meal slot
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a referenced food, dish, recipe or entry is
	// missing, deleted, inactive or owned by another user
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a referenced entity cannot produce a valid
	// nutrient density (e.g. a recipe whose ingredient mass is not positive)
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict is returned when a diary entry with the same
	// (user, date, meal slot, item, source kind) tuple already exists
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is returned when the request carries no valid identity
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProductNotFound is returned when a product cannot be found in USDA database
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")
)

// ErrLowConfidence is returned when the best USDA candidate for a name does
// not reach the configured match threshold
var ErrLowConfidence = errors.New("no confident USDA match")

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MealSlot is a catalog entry for a time-of-day eating occasion.
type MealSlot struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// MealSlots is the fixed meal-slot catalog in display order.
var MealSlots = []MealSlot{
	{Code: "BREAKFAST", Name: "Breakfast", Order: 1},
	{Code: "MORNING_SNACK", Name: "Morning snack", Order: 2},
	{Code: "LUNCH", Name: "Lunch", Order: 3},
	{Code: "AFTERNOON_SNACK", Name: "Afternoon snack", Order: 4},
	{Code: "DINNER", Name: "Dinner", Order: 5},
	{Code: "LATE_SNACK", Name: "Late snack", Order: 6},
}

// LookupMealSlot finds a slot by code, ignoring case and surrounding space.
func LookupMealSlot(code string) (MealSlot, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, slot := range MealSlots {
		if slot.Code == code {
			return slot, true
		}
	}
	return MealSlot{}, false
}

// DiaryEntry is one logged consumption event. Nutrients are frozen at
// creation: they are copied values, never recomputed from the catalog.
type DiaryEntry struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Date       time.Time       `json:"date"`
	MealSlot   string          `json:"mealSlot"`
	SourceKind SourceKind      `json:"sourceKind"`
	ItemID     uuid.UUID       `json:"itemId"`
	Quantity   decimal.Decimal `json:"quantity"`
	Nutrients  Nutrients       `json:"nutrients"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Validate checks the entry-level invariants: exactly one typed source
// reference, a known meal slot, positive quantity and non-negative values.
func (e *DiaryEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if !e.SourceKind.Valid() {
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidArgument, e.SourceKind)
	}
	if e.ItemID == uuid.Nil {
		return fmt.Errorf("%w: item id is required for source %s", ErrInvalidArgument, e.SourceKind)
	}
	if _, ok := LookupMealSlot(e.MealSlot); !ok {
		return fmt.Errorf("%w: unknown meal slot %q", ErrInvalidArgument, e.MealSlot)
	}
	if !e.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if e.Quantity.GreaterThan(MaxQuantity) {
		return fmt.Errorf("%w: quantity must not exceed %s", ErrInvalidArgument, MaxQuantity)
	}
	if e.Nutrients.HasNegative() {
		return fmt.Errorf("%w: computed nutrient values must not be negative", ErrInvalidState)
	}
	if e.Nutrients.Exceeds(MaxStoredValue) {
		return fmt.Errorf("%w: computed nutrient values are out of range", ErrInvalidArgument)
	}
	return nil
}

// CreateEntryRequest is the input of the diary entry builder.
type CreateEntryRequest struct {
	UserID     uuid.UUID
	Date       time.Time
	MealSlot   string
	SourceKind string
	ItemID     uuid.UUID
	Quantity   decimal.Decimal
}

// UpdateEntryRequest replaces the quantity (and optionally the meal slot) of
// an existing entry.
type UpdateEntryRequest struct {
	MealSlot string // empty keeps the current slot
	Quantity decimal.Decimal
}

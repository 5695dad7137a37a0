package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceKind tags which catalog entity a diary entry was computed from
type SourceKind string

const (
	SourceFood       SourceKind = "FOOD"
	SourceCustomDish SourceKind = "CUSTOM_DISH"
	SourceRecipe     SourceKind = "RECIPE"
)

// ParseSourceKind normalizes a client supplied kind. Unknown kinds yield
// ErrInvalidArgument.
func ParseSourceKind(s string) (SourceKind, error) {
	kind := SourceKind(strings.ToUpper(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown source kind %q", ErrInvalidArgument, s)
	}
	return kind, nil
}

// Valid reports whether k is one of the known kinds
func (k SourceKind) Valid() bool {
	switch k {
	case SourceFood, SourceCustomDish, SourceRecipe:
		return true
	}
	return false
}

// Catalog origin tags for FoodItem.Origin
const (
	OriginUSDA   = "USDA"
	OriginSeed   = "SEED"
	OriginManual = "MANUAL"
)

// FoodItem is an atomic catalog food. Per100 holds the nutrient density per
// 100 units of Unit.
type FoodItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"` // "g" or "ml"
	Per100      Nutrients `json:"per100"`
	Origin      string    `json:"origin"`
	ExternalRef string    `json:"externalRef,omitempty"` // FDC id for USDA imports
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CustomDish is a user-authored dish with its own per-100 density.
type CustomDish struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Per100      Nutrients `json:"per100"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Recipe is a named collection of ingredient rows. It has no stored density.
type Recipe struct {
	ID          uuid.UUID          `json:"id"`
	OwnerID     uuid.UUID          `json:"ownerId"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// RecipeIngredient references a FoodItem by id with a gram quantity.
type RecipeIngredient struct {
	FoodID uuid.UUID       `json:"foodId"`
	Grams  decimal.Decimal `json:"grams"`
}

// IngredientInput is an ingredient as submitted for a recipe or a custom dish.
type IngredientInput = RecipeIngredient

// FoodQuery filters catalog searches.
type FoodQuery struct {
	Name   string
	Limit  int
	Offset int
}

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	FoodClass   string         `json:"foodClass,omitempty"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data. Search results use
// the flat NutrientID/Value shape while the food details endpoint nests the
// nutrient reference and reports Amount.
type USDANutrient struct {
	NutrientID     int              `json:"nutrientId"`
	NutrientName   string           `json:"nutrientName"`
	NutrientNumber string           `json:"nutrientNumber,omitempty"`
	UnitName       string           `json:"unitName"`
	Value          float64          `json:"value"`
	Nutrient       *USDANutrientRef `json:"nutrient,omitempty"`
	Amount         float64          `json:"amount,omitempty"`
}

// USDANutrientRef is the nested nutrient descriptor of the details endpoint
type USDANutrientRef struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	UnitName string `json:"unitName"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// CreateCustomDishRequest creates a dish either from a direct per-100 density
// or from ingredient rows. Exactly one of Per100 and Ingredients must be set.
type CreateCustomDishRequest struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	Per100      *Nutrients
	Ingredients []IngredientInput
}

// CreateRecipeRequest creates a recipe with its ingredient rows
type CreateRecipeRequest struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	Ingredients []IngredientInput
}

// MatchResult is a scored USDA candidate for a free-text food name
type MatchResult struct {
	FdcID         int      `json:"fdcId"`
	Description   string   `json:"description"`
	DataType      string   `json:"dataType"`
	Score         float64  `json:"score"`
	MatchedTokens []string `json:"matchedTokens"`
}

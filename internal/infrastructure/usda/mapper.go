package usda

import (
	"strconv"
	"strings"

	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

// USDA Nutrient IDs for key macronutrients
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
)

// MapToFoodItem converts USDA food data into an active catalog food. USDA
// reports values per 100 g, which is already the catalog density basis.
// ID and CreatedAt are left for the caller.
func MapToFoodItem(usdaFood *domain.USDAFood) *domain.FoodItem {
	return &domain.FoodItem{
		Name:        strings.TrimSpace(usdaFood.Description),
		Unit:        "g",
		Per100:      extractNutrients(usdaFood.Nutrients).Round2(),
		Origin:      domain.OriginUSDA,
		ExternalRef: strconv.Itoa(usdaFood.FdcID),
		Active:      true,
	}
}

// extractNutrients extracts the key macronutrients from USDA nutrient list
func extractNutrients(usdaNutrients []domain.USDANutrient) domain.Nutrients {
	nutrients := domain.Nutrients{}

	for _, n := range usdaNutrients {
		id, value := nutrientIDAndValue(n)
		switch id {
		case NutrientIDEnergy:
			nutrients.Calories = decimal.NewFromFloat(value)
		case NutrientIDProtein:
			nutrients.Protein = decimal.NewFromFloat(value)
		case NutrientIDCarbohydrate:
			nutrients.Carbohydrates = decimal.NewFromFloat(value)
		case NutrientIDTotalFat:
			nutrients.Fat = decimal.NewFromFloat(value)
		}
	}

	return nutrients
}

// nutrientIDAndValue reads either the flat search shape or the nested
// details shape.
func nutrientIDAndValue(n domain.USDANutrient) (int, float64) {
	if n.Nutrient != nil {
		return n.Nutrient.ID, n.Amount
	}
	return n.NutrientID, n.Value
}

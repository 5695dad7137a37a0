package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
	"github.com/shopspring/decimal"
)

type seedFood struct {
	name               string
	calories, protein  string
	carbohydrates, fat string
}

// Starter catalog, densities per 100 g
var seedFoods = []seedFood{
	{"Chicken Breast", "165", "31", "0", "3.6"},
	{"Brown Rice", "111", "2.6", "23", "0.9"},
	{"Broccoli", "34", "2.8", "7", "0.4"},
	{"Banana", "89", "1.1", "23", "0.3"},
	{"Greek Yogurt", "59", "10", "3.6", "0.4"},
	{"Almonds", "579", "21", "22", "50"},
	{"Salmon", "208", "22", "0", "13"},
	{"Sweet Potato", "86", "1.6", "20", "0.1"},
	{"Spinach", "23", "2.9", "3.6", "0.4"},
	{"Egg", "155", "13", "1.1", "11"},
}

// SeedFoods inserts the starter catalog. Rows are keyed by a slug of the
// name so repeated runs insert nothing new. It returns the number of foods
// created.
func SeedFoods(ctx context.Context, foods domain.FoodRepository) (int, error) {
	created := 0
	for _, sf := range seedFoods {
		ref := seedRef(sf.name)
		_, err := foods.GetFoodByExternalRef(ctx, domain.OriginSeed, ref)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("seed lookup %s: %w", sf.name, err)
		}

		food := &domain.FoodItem{
			Name: sf.name,
			Unit: "g",
			Per100: domain.Nutrients{
				Calories:      decimal.RequireFromString(sf.calories),
				Protein:       decimal.RequireFromString(sf.protein),
				Carbohydrates: decimal.RequireFromString(sf.carbohydrates),
				Fat:           decimal.RequireFromString(sf.fat),
			},
			Origin:      domain.OriginSeed,
			ExternalRef: ref,
			Active:      true,
		}
		if err := foods.CreateFood(ctx, food); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", sf.name, err)
		}
		created++
	}

	applog.Info(ctx, "seeded food catalog", "created", created, "total", len(seedFoods))
	return created, nil
}

func seedRef(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

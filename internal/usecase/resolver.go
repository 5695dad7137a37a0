package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

// SourceResolver turns a (source kind, item id) reference into a per-100
// nutrient density. It only reads the catalog.
type SourceResolver struct {
	foods   domain.FoodRepository
	dishes  domain.CustomDishRepository
	recipes domain.RecipeRepository
}

// NewSourceResolver creates a resolver over the catalog repositories
func NewSourceResolver(
	foods domain.FoodRepository,
	dishes domain.CustomDishRepository,
	recipes domain.RecipeRepository,
) *SourceResolver {
	return &SourceResolver{
		foods:   foods,
		dishes:  dishes,
		recipes: recipes,
	}
}

// Resolve returns the density of the referenced item. Custom dishes are only
// visible to their owner; recipes are derived from their ingredients.
func (r *SourceResolver) Resolve(
	ctx context.Context,
	kind domain.SourceKind,
	itemID uuid.UUID,
	userID uuid.UUID,
) (domain.Nutrients, error) {
	switch kind {
	case domain.SourceFood:
		food, err := r.foods.GetFood(ctx, itemID)
		if err != nil {
			return domain.Nutrients{}, err
		}
		if !food.Active {
			return domain.Nutrients{}, fmt.Errorf("%w: food %s is inactive", domain.ErrNotFound, itemID)
		}
		return food.Per100, nil

	case domain.SourceCustomDish:
		dish, err := r.dishes.GetCustomDish(ctx, userID, itemID)
		if err != nil {
			return domain.Nutrients{}, err
		}
		return dish.Per100, nil

	case domain.SourceRecipe:
		recipe, err := r.recipes.GetRecipe(ctx, itemID)
		if err != nil {
			return domain.Nutrients{}, err
		}
		if len(recipe.Ingredients) == 0 {
			return domain.Nutrients{}, fmt.Errorf("%w: recipe %s has no ingredients", domain.ErrNotFound, itemID)
		}
		return r.IngredientDensity(ctx, recipe.Ingredients)

	default:
		return domain.Nutrients{}, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidArgument, kind)
	}
}

// IngredientDensity loads the foods referenced by ingredients and derives the
// combined per-100 density.
func (r *SourceResolver) IngredientDensity(ctx context.Context, ingredients []domain.RecipeIngredient) (domain.Nutrients, error) {
	ids := make([]uuid.UUID, 0, len(ingredients))
	seen := make(map[uuid.UUID]bool, len(ingredients))
	for _, ing := range ingredients {
		if !seen[ing.FoodID] {
			seen[ing.FoodID] = true
			ids = append(ids, ing.FoodID)
		}
	}

	foods, err := r.foods.GetFoods(ctx, ids)
	if err != nil {
		return domain.Nutrients{}, err
	}
	return DeriveDensity(ingredients, foods)
}

// DeriveDensity sums grams x density/100 over every ingredient and divides by
// the total ingredient mass. Every ingredient must reference an active food.
func DeriveDensity(ingredients []domain.RecipeIngredient, foods map[uuid.UUID]domain.FoodItem) (domain.Nutrients, error) {
	if len(ingredients) == 0 {
		return domain.Nutrients{}, fmt.Errorf("%w: no ingredients", domain.ErrNotFound)
	}

	var total domain.Nutrients
	mass := decimal.Zero
	for _, ing := range ingredients {
		food, ok := foods[ing.FoodID]
		if !ok || !food.Active {
			return domain.Nutrients{}, fmt.Errorf("%w: ingredient food %s", domain.ErrNotFound, ing.FoodID)
		}
		total = total.Add(food.Per100.Portion(ing.Grams))
		mass = mass.Add(ing.Grams)
	}

	if !mass.IsPositive() {
		return domain.Nutrients{}, fmt.Errorf("%w: total ingredient mass must be positive, got %s", domain.ErrInvalidState, mass)
	}
	return total.PerHundred(mass), nil
}

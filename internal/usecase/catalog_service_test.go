package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/macrolens/diary/internal/infrastructure/usda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	resolverFixture
	client  *MockUSDAClient
	cache   *MockCacheRepository
	catalog *CatalogService
	owner   uuid.UUID
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		resolverFixture: *newResolverFixture(),
		client:          &MockUSDAClient{},
		cache:           NewMockCacheRepository(),
		owner:           uuid.New(),
	}
	f.catalog = NewCatalogService(f.foods, f.dishes, f.recipes, f.client, f.cache, CatalogServiceConfig{})
	return f
}

func TestSearchFoods_NormalizesQuery(t *testing.T) {
	f := newCatalogFixture()
	for i := 0; i < 30; i++ {
		f.foods.add("Rice variant", density("130", "2", "28", "0.3"))
	}

	got, err := f.catalog.SearchFoods(context.Background(), domain.FoodQuery{Name: "  rice "})
	require.NoError(t, err)
	assert.Len(t, got, defaultSearchLimit)

	assert.Equal(t, maxSearchLimit, normalizeQuery(domain.FoodQuery{Limit: 5000}).Limit)
	assert.Equal(t, 0, normalizeQuery(domain.FoodQuery{Offset: -3}).Offset)
}

func TestGetFood_Inactive(t *testing.T) {
	f := newCatalogFixture()
	food := f.foods.add("Old", density("1", "1", "1", "1"))
	food.Active = false
	f.foods.foods[food.ID] = food

	_, err := f.catalog.GetFood(context.Background(), food.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportFood(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	f.client.foodResult = &domain.USDAFood{
		FdcID:       171705,
		Description: "Oats",
		Nutrients: []domain.USDANutrient{
			{Nutrient: &domain.USDANutrientRef{ID: usda.NutrientIDEnergy}, Amount: 389},
			{Nutrient: &domain.USDANutrientRef{ID: usda.NutrientIDProtein}, Amount: 16.89},
			{Nutrient: &domain.USDANutrientRef{ID: usda.NutrientIDCarbohydrate}, Amount: 66.27},
			{Nutrient: &domain.USDANutrientRef{ID: usda.NutrientIDTotalFat}, Amount: 6.9},
		},
	}

	food, err := f.catalog.ImportFood(ctx, 171705)
	require.NoError(t, err)
	assert.Equal(t, "Oats", food.Name)
	assert.Equal(t, "171705", food.ExternalRef)
	assert.Equal(t, "389.00", food.Per100.Calories.StringFixed(2))
	assert.NotEqual(t, uuid.Nil, food.ID)

	again, err := f.catalog.ImportFood(ctx, 171705)
	require.NoError(t, err)
	assert.Equal(t, food.ID, again.ID)
	assert.Equal(t, 1, f.client.detailCalls)

	_, err = f.catalog.ImportFood(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestImportFood_USDAFailure(t *testing.T) {
	f := newCatalogFixture()
	f.client.foodError = domain.ErrProductNotFound

	_, err := f.catalog.ImportFood(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, f.foods.foods)
}

func TestCreateCustomDish_DirectDensity(t *testing.T) {
	f := newCatalogFixture()
	per100 := density("95.555", "6", "12", "2.5")

	dish, err := f.catalog.CreateCustomDish(context.Background(), domain.CreateCustomDishRequest{
		OwnerID: f.owner, Name: " Pho bo ", Per100: &per100,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pho bo", dish.Name)
	assert.Equal(t, "95.56", dish.Per100.Calories.StringFixed(2))
	assert.Contains(t, f.dishes.dishes, dish.ID)
}

func TestCreateCustomDish_FromIngredientsIsFrozen(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	a := f.foods.add("A", density("200", "10", "20", "8"))
	b := f.foods.add("B", density("100", "4", "10", "2"))

	dish, err := f.catalog.CreateCustomDish(ctx, domain.CreateCustomDishRequest{
		OwnerID: f.owner,
		Name:    "Mix",
		Ingredients: []domain.IngredientInput{
			{FoodID: a.ID, Grams: dec("100")},
			{FoodID: b.ID, Grams: dec("50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "166.67", dish.Per100.Calories.StringFixed(2))

	food := f.foods.foods[a.ID]
	food.Per100 = density("1", "1", "1", "1")
	f.foods.foods[a.ID] = food

	got, err := f.resolver.Resolve(ctx, domain.SourceCustomDish, dish.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "166.67", got.Calories.StringFixed(2))
}

func TestCreateCustomDish_Validation(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	a := f.foods.add("A", density("200", "10", "20", "8"))
	negative := density("-1", "0", "0", "0")
	oversized := density("100000000", "0", "0", "0")
	valid := density("1", "1", "1", "1")

	tests := []struct {
		name    string
		req     domain.CreateCustomDishRequest
		wantErr error
	}{
		{"missing name", domain.CreateCustomDishRequest{OwnerID: f.owner, Per100: &valid}, domain.ErrInvalidArgument},
		{"missing owner", domain.CreateCustomDishRequest{Name: "x", Per100: &valid}, domain.ErrInvalidArgument},
		{"no density source", domain.CreateCustomDishRequest{OwnerID: f.owner, Name: "x"}, domain.ErrInvalidArgument},
		{"both density sources", domain.CreateCustomDishRequest{
			OwnerID: f.owner, Name: "x", Per100: &valid,
			Ingredients: []domain.IngredientInput{{FoodID: a.ID, Grams: dec("1")}},
		}, domain.ErrInvalidArgument},
		{"negative density", domain.CreateCustomDishRequest{OwnerID: f.owner, Name: "x", Per100: &negative}, domain.ErrInvalidArgument},
		{"density wider than the column", domain.CreateCustomDishRequest{OwnerID: f.owner, Name: "x", Per100: &oversized}, domain.ErrInvalidArgument},
		{"zero grams", domain.CreateCustomDishRequest{
			OwnerID: f.owner, Name: "x",
			Ingredients: []domain.IngredientInput{{FoodID: a.ID, Grams: dec("0")}},
		}, domain.ErrInvalidArgument},
		{"unknown ingredient", domain.CreateCustomDishRequest{
			OwnerID: f.owner, Name: "x",
			Ingredients: []domain.IngredientInput{{FoodID: uuid.New(), Grams: dec("10")}},
		}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateCustomDish(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.dishes.dishes)
}

func TestCustomDishOwnership(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	per100 := density("1", "1", "1", "1")

	dish, err := f.catalog.CreateCustomDish(ctx, domain.CreateCustomDishRequest{OwnerID: f.owner, Name: "mine", Per100: &per100})
	require.NoError(t, err)

	_, err = f.catalog.GetCustomDish(ctx, uuid.New(), dish.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.catalog.DeleteCustomDish(ctx, uuid.New(), dish.ID), domain.ErrNotFound)

	list, err := f.catalog.ListCustomDishes(ctx, f.owner, domain.FoodQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.catalog.DeleteCustomDish(ctx, f.owner, dish.ID))
	_, err = f.catalog.GetCustomDish(ctx, f.owner, dish.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRecipe(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	a := f.foods.add("A", density("200", "10", "20", "8"))

	recipe, err := f.catalog.CreateRecipe(ctx, domain.CreateRecipeRequest{
		OwnerID:     f.owner,
		Name:        "Porridge",
		Ingredients: []domain.IngredientInput{{FoodID: a.ID, Grams: dec("80.555")}},
	})
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "80.56", recipe.Ingredients[0].Grams.StringFixed(2))

	got, err := f.catalog.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.Name, got.Name)

	_, err = f.catalog.CreateRecipe(ctx, domain.CreateRecipeRequest{OwnerID: f.owner, Name: "Empty"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.catalog.CreateRecipe(ctx, domain.CreateRecipeRequest{
		OwnerID: f.owner, Name: "Ghost",
		Ingredients: []domain.IngredientInput{{FoodID: uuid.New(), Grams: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.catalog.DeleteRecipe(ctx, uuid.New(), recipe.ID), domain.ErrNotFound)
	assert.NoError(t, f.catalog.DeleteRecipe(ctx, f.owner, recipe.ID))
}

func TestSearchUSDA(t *testing.T) {
	f := newCatalogFixture()
	f.client.searchResult = &domain.USDASearchResponse{Foods: []domain.USDAFood{{FdcID: 1, Description: "Milk"}}}

	got, err := f.catalog.SearchUSDA(context.Background(), "milk")
	require.NoError(t, err)
	assert.Len(t, got.Foods, 1)

	_, err = f.catalog.SearchUSDA(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	noClient := NewCatalogService(f.foods, f.dishes, f.recipes, nil, nil, CatalogServiceConfig{})
	_, err = noClient.SearchUSDA(context.Background(), "milk")
	assert.ErrorIs(t, err, domain.ErrUSDAAPIFailure)
}

func TestSearchUSDA_CachesResponses(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	f.client.searchResult = &domain.USDASearchResponse{
		TotalHits: 1,
		Foods:     []domain.USDAFood{{FdcID: 1097512, Description: "Milk, whole", DataType: "Survey (FNDDS)"}},
	}

	first, err := f.catalog.SearchUSDA(ctx, "Whole  Milk")
	require.NoError(t, err)
	second, err := f.catalog.SearchUSDA(ctx, "whole milk")
	require.NoError(t, err)

	assert.Equal(t, 1, f.client.searchCalls)
	assert.Equal(t, first, second)
	assert.Contains(t, f.cache.data, "usda:search:whole milk")

	f.client.searchError = domain.ErrUSDAAPIFailure
	_, err = f.catalog.SearchUSDA(ctx, "skim milk")
	assert.ErrorIs(t, err, domain.ErrUSDAAPIFailure)
	assert.NotContains(t, f.cache.data, "usda:search:skim milk")
}

func TestSearchUSDA_CacheErrorsAreNotFatal(t *testing.T) {
	f := newCatalogFixture()
	f.cache.getError = errors.New("boom")
	f.cache.setError = errors.New("boom")
	f.client.searchResult = &domain.USDASearchResponse{Foods: []domain.USDAFood{{FdcID: 1, Description: "Milk"}}}

	got, err := f.catalog.SearchUSDA(context.Background(), "milk")
	require.NoError(t, err)
	assert.Len(t, got.Foods, 1)
}

func TestImportByName(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	f.client.searchResult = &domain.USDASearchResponse{Foods: []domain.USDAFood{
		{FdcID: 2, Description: "Cereals, oats, instant, fortified, plain, dry", DataType: "Survey (FNDDS)"},
		{FdcID: 171705, Description: "Oats", DataType: "SR Legacy"},
	}}
	f.client.foodResult = &domain.USDAFood{
		FdcID:       171705,
		Description: "Oats",
		Nutrients:   []domain.USDANutrient{{NutrientID: usda.NutrientIDEnergy, Value: 389}},
	}

	food, match, err := f.catalog.ImportByName(ctx, "oats")
	require.NoError(t, err)
	assert.Equal(t, 171705, match.FdcID)
	assert.Equal(t, "171705", food.ExternalRef)

	f.client.searchResult = &domain.USDASearchResponse{Foods: []domain.USDAFood{{FdcID: 5, Description: "Granola bar"}}}
	_, _, err = f.catalog.ImportByName(ctx, "dragon fruit")
	assert.ErrorIs(t, err, domain.ErrLowConfidence)
}

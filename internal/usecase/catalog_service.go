package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/macrolens/diary/internal/infrastructure/usda"
	applog "github.com/macrolens/diary/internal/log"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	MinMatchConfidence float64
	FuzzyMatching      bool
	CacheTTL           time.Duration
}

// CatalogService maintains foods, custom dishes and recipes
type CatalogService struct {
	foods      domain.FoodRepository
	dishes     domain.CustomDishRepository
	recipes    domain.RecipeRepository
	resolver   *SourceResolver
	usdaClient domain.USDAClient
	cache      domain.CacheRepository
	cacheTTL   time.Duration
	matcher    *FoodMatcher
	now        func() time.Time
}

// NewCatalogService creates a catalog service. usdaClient may be nil, in which
// case imports fail with ErrUSDAAPIFailure. cache may be nil.
func NewCatalogService(
	foods domain.FoodRepository,
	dishes domain.CustomDishRepository,
	recipes domain.RecipeRepository,
	usdaClient domain.USDAClient,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	return &CatalogService{
		foods:      foods,
		dishes:     dishes,
		recipes:    recipes,
		resolver:   NewSourceResolver(foods, dishes, recipes),
		usdaClient: usdaClient,
		cache:      cache,
		cacheTTL:   cacheTTL,
		matcher: NewFoodMatcher(MatchConfig{
			MinConfidenceThreshold: config.MinMatchConfidence,
			EnableFuzzyMatching:    config.FuzzyMatching,
		}),
		now: time.Now,
	}
}

// SearchFoods lists active foods whose name contains q.Name.
func (s *CatalogService) SearchFoods(ctx context.Context, q domain.FoodQuery) ([]domain.FoodItem, error) {
	return s.foods.SearchFoods(ctx, normalizeQuery(q))
}

// GetFood returns an active food by id.
func (s *CatalogService) GetFood(ctx context.Context, id uuid.UUID) (*domain.FoodItem, error) {
	food, err := s.foods.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if !food.Active {
		return nil, fmt.Errorf("%w: food %s is inactive", domain.ErrNotFound, id)
	}
	return food, nil
}

// ImportFood copies a USDA FoodData Central item into the catalog.
// Importing the same FDC id twice returns the existing row.
func (s *CatalogService) ImportFood(ctx context.Context, fdcID int) (*domain.FoodItem, error) {
	if fdcID <= 0 {
		return nil, fmt.Errorf("%w: fdc id must be positive", domain.ErrInvalidArgument)
	}
	ref := strconv.Itoa(fdcID)

	existing, err := s.foods.GetFoodByExternalRef(ctx, domain.OriginUSDA, ref)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if s.usdaClient == nil {
		return nil, fmt.Errorf("%w: client not configured", domain.ErrUSDAAPIFailure)
	}
	details, err := s.usdaClient.GetFoodDetails(ctx, ref)
	if err != nil {
		return nil, err
	}

	food := usda.MapToFoodItem(details)
	food.ID = uuid.New()
	food.CreatedAt = s.now().UTC()
	if food.Per100.HasNegative() {
		return nil, fmt.Errorf("%w: USDA food %d reports negative nutrients", domain.ErrInvalidState, fdcID)
	}

	if err := s.foods.CreateFood(ctx, food); err != nil {
		// Lost a race with a concurrent import of the same id
		if errors.Is(err, domain.ErrConflict) {
			return s.foods.GetFoodByExternalRef(ctx, domain.OriginUSDA, ref)
		}
		return nil, err
	}

	applog.Info(ctx, "[catalog] imported USDA food", "fdc_id", fdcID, "name", food.Name)
	return food, nil
}

// ImportByName searches FoodData Central for name, picks the best scoring
// candidate and imports it. Candidates below the confidence threshold are
// rejected with ErrLowConfidence.
func (s *CatalogService) ImportByName(ctx context.Context, name string) (*domain.FoodItem, *domain.MatchResult, error) {
	results, err := s.SearchUSDA(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	best, err := s.matcher.BestMatch(ctx, name, results.Foods)
	if err != nil {
		if errors.Is(err, domain.ErrLowConfidence) {
			applog.Info(ctx, "[catalog] no confident USDA match", "name", name, "best", best.Description, "score", best.Score)
		}
		return nil, best, err
	}

	food, err := s.ImportFood(ctx, best.FdcID)
	if err != nil {
		return nil, best, err
	}
	return food, best, nil
}

// SearchUSDA proxies a free-text search to FoodData Central so clients can
// pick an FDC id to import.
// Flow: check cache -> search USDA -> cache -> return
func (s *CatalogService) SearchUSDA(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidArgument)
	}
	if s.usdaClient == nil {
		return nil, fmt.Errorf("%w: client not configured", domain.ErrUSDAAPIFailure)
	}

	key := usdaSearchCacheKey(query)
	if cached, ok := s.getSearchFromCache(ctx, key); ok {
		return cached, nil
	}

	results, err := s.usdaClient.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}
	s.setSearchInCache(ctx, key, results)
	return results, nil
}

// usdaSearchCacheKey format: "usda:search:{normalized query}"
func usdaSearchCacheKey(query string) string {
	return "usda:search:" + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func (s *CatalogService) getSearchFromCache(ctx context.Context, key string) (*domain.USDASearchResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			applog.Warn(ctx, "[catalog] cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var results domain.USDASearchResponse
	if err := json.Unmarshal(raw, &results); err != nil {
		applog.Warn(ctx, "[catalog] discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &results, true
}

func (s *CatalogService) setSearchInCache(ctx context.Context, key string, results *domain.USDASearchResponse) {
	if s.cache == nil || results == nil {
		return
	}
	raw, err := json.Marshal(results)
	if err == nil {
		err = s.cache.Set(ctx, key, raw, s.cacheTTL)
	}
	if err != nil {
		// Caching is best effort
		applog.Warn(ctx, "[catalog] cache write failed", "key", key, "error", err)
	}
}

// CreateCustomDish stores a dish owned by req.OwnerID. When ingredients are
// given, the density is derived from them once and stored; later catalog
// changes do not affect the dish.
func (s *CatalogService) CreateCustomDish(ctx context.Context, req domain.CreateCustomDishRequest) (*domain.CustomDish, error) {
	name := strings.TrimSpace(req.Name)
	if req.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}

	var density domain.Nutrients
	switch {
	case req.Per100 != nil && len(req.Ingredients) > 0:
		return nil, fmt.Errorf("%w: give either a density or ingredients, not both", domain.ErrInvalidArgument)
	case req.Per100 != nil:
		density = *req.Per100
	case len(req.Ingredients) > 0:
		if err := validateIngredients(req.Ingredients); err != nil {
			return nil, err
		}
		derived, err := s.resolver.IngredientDensity(ctx, req.Ingredients)
		if err != nil {
			return nil, err
		}
		density = derived
	default:
		return nil, fmt.Errorf("%w: a density or ingredients are required", domain.ErrInvalidArgument)
	}

	density = density.Round2()
	if density.HasNegative() {
		return nil, fmt.Errorf("%w: densities must not be negative", domain.ErrInvalidArgument)
	}
	if density.Exceeds(domain.MaxStoredValue) {
		return nil, fmt.Errorf("%w: densities are out of range", domain.ErrInvalidArgument)
	}

	dish := &domain.CustomDish{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Per100:      density,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.dishes.CreateCustomDish(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// ListCustomDishes lists the owner's dishes.
func (s *CatalogService) ListCustomDishes(ctx context.Context, ownerID uuid.UUID, q domain.FoodQuery) ([]domain.CustomDish, error) {
	return s.dishes.ListCustomDishes(ctx, ownerID, normalizeQuery(q))
}

// GetCustomDish returns one of the owner's dishes.
func (s *CatalogService) GetCustomDish(ctx context.Context, ownerID, id uuid.UUID) (*domain.CustomDish, error) {
	return s.dishes.GetCustomDish(ctx, ownerID, id)
}

// DeleteCustomDish soft-deletes one of the owner's dishes. Diary entries that
// reference it keep their frozen values.
func (s *CatalogService) DeleteCustomDish(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.dishes.DeleteCustomDish(ctx, ownerID, id)
}

// CreateRecipe stores a recipe and its ingredient rows. Every ingredient must
// reference an active food.
func (s *CatalogService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (*domain.Recipe, error) {
	name := strings.TrimSpace(req.Name)
	if req.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if len(req.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: a recipe needs at least one ingredient", domain.ErrInvalidArgument)
	}
	if err := validateIngredients(req.Ingredients); err != nil {
		return nil, err
	}
	// Fails early on unknown or inactive foods
	if _, err := s.resolver.IngredientDensity(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	ingredients := make([]domain.RecipeIngredient, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients[i] = domain.RecipeIngredient{FoodID: ing.FoodID, Grams: domain.Round2(ing.Grams)}
	}

	recipe := &domain.Recipe{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Ingredients: ingredients,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe returns a recipe with its ingredients.
func (s *CatalogService) GetRecipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	return s.recipes.GetRecipe(ctx, id)
}

// DeleteRecipe soft-deletes a recipe owned by ownerID.
func (s *CatalogService) DeleteRecipe(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.recipes.DeleteRecipe(ctx, ownerID, id)
}

func validateIngredients(ingredients []domain.IngredientInput) error {
	for i, ing := range ingredients {
		if ing.FoodID == uuid.Nil {
			return fmt.Errorf("%w: ingredient %d has no food id", domain.ErrInvalidArgument, i)
		}
		if !domain.Round2(ing.Grams).IsPositive() {
			return fmt.Errorf("%w: ingredient %d grams must be positive", domain.ErrInvalidArgument, i)
		}
	}
	return nil
}

func normalizeQuery(q domain.FoodQuery) domain.FoodQuery {
	q.Name = strings.TrimSpace(q.Name)
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

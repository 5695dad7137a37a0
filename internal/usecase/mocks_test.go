package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func density(cal, protein, carbs, fat string) domain.Nutrients {
	return domain.Nutrients{
		Calories:      dec(cal),
		Protein:       dec(protein),
		Carbohydrates: dec(carbs),
		Fat:           dec(fat),
	}
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	gets     int
	sets     int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResult *domain.USDASearchResponse
	searchError  error
	foodResult   *domain.USDAFood
	foodError    error
	searchCalls  int
	detailCalls  int
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.searchCalls++
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockUSDAClient) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	m.detailCalls++
	if m.foodError != nil {
		return nil, m.foodError
	}
	return m.foodResult, nil
}

// MockFoodRepository keeps foods in a map
type MockFoodRepository struct {
	foods    map[uuid.UUID]domain.FoodItem
	getCalls int
}

func NewMockFoodRepository(foods ...domain.FoodItem) *MockFoodRepository {
	m := &MockFoodRepository{foods: make(map[uuid.UUID]domain.FoodItem)}
	for _, f := range foods {
		m.foods[f.ID] = f
	}
	return m
}

func (m *MockFoodRepository) add(name string, per100 domain.Nutrients) domain.FoodItem {
	f := domain.FoodItem{ID: uuid.New(), Name: name, Unit: "g", Per100: per100, Origin: domain.OriginSeed, Active: true}
	m.foods[f.ID] = f
	return f
}

func (m *MockFoodRepository) GetFood(ctx context.Context, id uuid.UUID) (*domain.FoodItem, error) {
	m.getCalls++
	f, ok := m.foods[id]
	if !ok {
		return nil, fmt.Errorf("%w: food %s", domain.ErrNotFound, id)
	}
	return &f, nil
}

func (m *MockFoodRepository) GetFoods(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.FoodItem, error) {
	out := make(map[uuid.UUID]domain.FoodItem, len(ids))
	for _, id := range ids {
		if f, ok := m.foods[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (m *MockFoodRepository) GetFoodByExternalRef(ctx context.Context, origin, ref string) (*domain.FoodItem, error) {
	for _, f := range m.foods {
		if f.Origin == origin && f.ExternalRef == ref {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockFoodRepository) SearchFoods(ctx context.Context, q domain.FoodQuery) ([]domain.FoodItem, error) {
	var out []domain.FoodItem
	for _, f := range m.foods {
		if f.Active && strings.Contains(strings.ToLower(f.Name), strings.ToLower(q.Name)) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MockFoodRepository) CreateFood(ctx context.Context, food *domain.FoodItem) error {
	m.foods[food.ID] = *food
	return nil
}

// MockCustomDishRepository keeps dishes in a map
type MockCustomDishRepository struct {
	dishes map[uuid.UUID]domain.CustomDish
}

func NewMockCustomDishRepository() *MockCustomDishRepository {
	return &MockCustomDishRepository{dishes: make(map[uuid.UUID]domain.CustomDish)}
}

func (m *MockCustomDishRepository) GetCustomDish(ctx context.Context, ownerID, id uuid.UUID) (*domain.CustomDish, error) {
	d, ok := m.dishes[id]
	if !ok || d.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: custom dish %s", domain.ErrNotFound, id)
	}
	return &d, nil
}

func (m *MockCustomDishRepository) ListCustomDishes(ctx context.Context, ownerID uuid.UUID, q domain.FoodQuery) ([]domain.CustomDish, error) {
	var out []domain.CustomDish
	for _, d := range m.dishes {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockCustomDishRepository) CreateCustomDish(ctx context.Context, dish *domain.CustomDish) error {
	m.dishes[dish.ID] = *dish
	return nil
}

func (m *MockCustomDishRepository) DeleteCustomDish(ctx context.Context, ownerID, id uuid.UUID) error {
	d, ok := m.dishes[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.dishes, id)
	return nil
}

// MockRecipeRepository keeps recipes in a map
type MockRecipeRepository struct {
	recipes map[uuid.UUID]domain.Recipe
}

func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{recipes: make(map[uuid.UUID]domain.Recipe)}
}

func (m *MockRecipeRepository) GetRecipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: recipe %s", domain.ErrNotFound, id)
	}
	return &r, nil
}

func (m *MockRecipeRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	m.recipes[recipe.ID] = *recipe
	return nil
}

func (m *MockRecipeRepository) DeleteRecipe(ctx context.Context, ownerID, id uuid.UUID) error {
	r, ok := m.recipes[id]
	if !ok || r.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

// MockDiaryRepository enforces the entry uniqueness tuple under a lock, the
// way a unique index would.
type MockDiaryRepository struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]domain.DiaryEntry
	listCalls int
	createErr error
}

func NewMockDiaryRepository() *MockDiaryRepository {
	return &MockDiaryRepository{entries: make(map[uuid.UUID]domain.DiaryEntry)}
}

func tupleOf(e domain.DiaryEntry) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", e.UserID, e.Date.Format(time.DateOnly), e.MealSlot, e.ItemID, e.SourceKind)
}

func (m *MockDiaryRepository) conflicts(e domain.DiaryEntry) bool {
	for id, other := range m.entries {
		if id != e.ID && tupleOf(other) == tupleOf(e) {
			return true
		}
	}
	return false
}

func (m *MockDiaryRepository) CreateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.conflicts(*entry) {
		return fmt.Errorf("%w: duplicate diary entry", domain.ErrConflict)
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *MockDiaryRepository) GetEntry(ctx context.Context, userID, id uuid.UUID) (*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("%w: diary entry %s", domain.ErrNotFound, id)
	}
	return &e, nil
}

func (m *MockDiaryRepository) UpdateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrNotFound
	}
	if m.conflicts(*entry) {
		return fmt.Errorf("%w: duplicate diary entry", domain.ErrConflict)
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *MockDiaryRepository) DeleteEntry(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockDiaryRepository) ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []domain.DiaryEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// MockTargetRepository keeps targets in insertion order
type MockTargetRepository struct {
	targets []domain.NutritionTarget
}

func (m *MockTargetRepository) CreateTarget(ctx context.Context, target *domain.NutritionTarget) error {
	m.targets = append(m.targets, *target)
	return nil
}

func (m *MockTargetRepository) CurrentTarget(ctx context.Context, userID uuid.UUID, asOf time.Time) (*domain.NutritionTarget, error) {
	var best *domain.NutritionTarget
	for i := range m.targets {
		t := &m.targets[i]
		if t.UserID != userID || t.EffectiveFrom.After(asOf) {
			continue
		}
		if best == nil || t.EffectiveFrom.After(best.EffectiveFrom) {
			best = t
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	out := *best
	return &out, nil
}

// MockBodyMetricRepository keeps metrics in insertion order
type MockBodyMetricRepository struct {
	metrics []domain.BodyMetric
}

func (m *MockBodyMetricRepository) AddMetric(ctx context.Context, metric *domain.BodyMetric) error {
	m.metrics = append(m.metrics, *metric)
	return nil
}

func (m *MockBodyMetricRepository) LatestMetric(ctx context.Context, userID uuid.UUID) (*domain.BodyMetric, error) {
	var best *domain.BodyMetric
	for i := range m.metrics {
		bm := &m.metrics[i]
		if bm.UserID != userID {
			continue
		}
		if best == nil || !bm.MeasuredOn.Before(best.MeasuredOn) {
			best = bm
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	out := *best
	return &out, nil
}

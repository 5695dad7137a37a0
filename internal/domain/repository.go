package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for caching operations. Values are
// opaque serialized payloads so memory and remote caches behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// USDAClient defines the interface for interacting with USDA FoodData Central API
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID string) (*USDAFood, error)
}

// FoodRepository reads and maintains the atomic food catalog.
// Soft-deleted rows are invisible to every method.
type FoodRepository interface {
	GetFood(ctx context.Context, id uuid.UUID) (*FoodItem, error)
	GetFoods(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]FoodItem, error)
	GetFoodByExternalRef(ctx context.Context, origin, ref string) (*FoodItem, error)
	SearchFoods(ctx context.Context, q FoodQuery) ([]FoodItem, error)
	CreateFood(ctx context.Context, food *FoodItem) error
}

// CustomDishRepository stores user-authored dishes. Lookups are owner scoped.
type CustomDishRepository interface {
	GetCustomDish(ctx context.Context, ownerID, id uuid.UUID) (*CustomDish, error)
	ListCustomDishes(ctx context.Context, ownerID uuid.UUID, q FoodQuery) ([]CustomDish, error)
	CreateCustomDish(ctx context.Context, dish *CustomDish) error
	DeleteCustomDish(ctx context.Context, ownerID, id uuid.UUID) error
}

// RecipeRepository stores recipes together with their ingredient rows.
type RecipeRepository interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error)
	CreateRecipe(ctx context.Context, recipe *Recipe) error
	DeleteRecipe(ctx context.Context, ownerID, id uuid.UUID) error
}

// DiaryRepository persists diary entries. CreateEntry and UpdateEntry must
// enforce the (user, date, meal slot, item, source kind) uniqueness atomically
// and report a violation as ErrConflict.
type DiaryRepository interface {
	CreateEntry(ctx context.Context, entry *DiaryEntry) error
	GetEntry(ctx context.Context, userID, id uuid.UUID) (*DiaryEntry, error)
	UpdateEntry(ctx context.Context, entry *DiaryEntry) error
	DeleteEntry(ctx context.Context, userID, id uuid.UUID) error
	ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]DiaryEntry, error)
}

// TargetRepository stores nutrition target rows.
type TargetRepository interface {
	CreateTarget(ctx context.Context, target *NutritionTarget) error
	CurrentTarget(ctx context.Context, userID uuid.UUID, asOf time.Time) (*NutritionTarget, error)
}

// BodyMetricRepository stores the append-only body metric series.
type BodyMetricRepository interface {
	AddMetric(ctx context.Context, metric *BodyMetric) error
	LatestMetric(ctx context.Context, userID uuid.UUID) (*BodyMetric, error)
}

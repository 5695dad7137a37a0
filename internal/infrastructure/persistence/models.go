package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Densities are stored per 100 g/ml; amounts and quantities are stored with
// two fractional digits.

// FoodRow is the foods table
type FoodRow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"size:255;not null;index"`
	Unit          string          `gorm:"size:8;not null"`
	Calories      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_food_calories,calories >= 0"`
	Protein       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_food_protein,protein >= 0"`
	Carbohydrates decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_food_carbohydrates,carbohydrates >= 0"`
	Fat           decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_food_fat,fat >= 0"`
	Origin        string          `gorm:"size:16;not null;uniqueIndex:idx_food_external_ref,priority:1"`
	ExternalRef   *string         `gorm:"size:64;uniqueIndex:idx_food_external_ref,priority:2"`
	Active        bool            `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (FoodRow) TableName() string { return "foods" }

func (r *FoodRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *FoodRow) toDomain() domain.FoodItem {
	food := domain.FoodItem{
		ID:        r.ID,
		Name:      r.Name,
		Unit:      r.Unit,
		Per100:    nutrients(r.Calories, r.Protein, r.Carbohydrates, r.Fat),
		Origin:    r.Origin,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
	if r.ExternalRef != nil {
		food.ExternalRef = *r.ExternalRef
	}
	return food
}

func foodRowFrom(f *domain.FoodItem) *FoodRow {
	row := &FoodRow{
		ID:            f.ID,
		Name:          f.Name,
		Unit:          f.Unit,
		Calories:      f.Per100.Calories,
		Protein:       f.Per100.Protein,
		Carbohydrates: f.Per100.Carbohydrates,
		Fat:           f.Per100.Fat,
		Origin:        f.Origin,
		Active:        f.Active,
		CreatedAt:     f.CreatedAt,
	}
	if f.ExternalRef != "" {
		ref := f.ExternalRef
		row.ExternalRef = &ref
	}
	return row
}

// CustomDishRow is the custom_dishes table
type CustomDishRow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"size:255;not null"`
	Description   string          `gorm:"size:1000"`
	Calories      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_dish_calories,calories >= 0"`
	Protein       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_dish_protein,protein >= 0"`
	Carbohydrates decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_dish_carbohydrates,carbohydrates >= 0"`
	Fat           decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_dish_fat,fat >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (CustomDishRow) TableName() string { return "custom_dishes" }

func (r *CustomDishRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *CustomDishRow) toDomain() domain.CustomDish {
	return domain.CustomDish{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Per100:      nutrients(r.Calories, r.Protein, r.Carbohydrates, r.Fat),
		CreatedAt:   r.CreatedAt,
	}
}

// RecipeRow is the recipes table
type RecipeRow struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name        string                `gorm:"size:255;not null"`
	Description string                `gorm:"size:1000"`
	Ingredients []RecipeIngredientRow `gorm:"foreignKey:RecipeID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (RecipeRow) TableName() string { return "recipes" }

func (r *RecipeRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *RecipeRow) toDomain() domain.Recipe {
	recipe := domain.Recipe{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: make([]domain.RecipeIngredient, 0, len(r.Ingredients)),
		CreatedAt:   r.CreatedAt,
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.RecipeIngredient{FoodID: ing.FoodID, Grams: ing.Grams})
	}
	return recipe
}

// RecipeIngredientRow is the recipe_ingredients table
type RecipeIngredientRow struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RecipeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position int             `gorm:"not null"`
	FoodID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Grams    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (RecipeIngredientRow) TableName() string { return "recipe_ingredients" }

func (r *RecipeIngredientRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DiaryEntryRow is the diary_entries table. The composite unique index is
// the write-time guard against duplicate logging.
type DiaryEntryRow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_diary_entry_tuple,priority:1"`
	EntryDate     datatypes.Date  `gorm:"not null;uniqueIndex:idx_diary_entry_tuple,priority:2"`
	MealSlot      string          `gorm:"size:32;not null;uniqueIndex:idx_diary_entry_tuple,priority:3"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_diary_entry_tuple,priority:4"`
	SourceKind    string          `gorm:"size:16;not null;uniqueIndex:idx_diary_entry_tuple,priority:5;check:chk_diary_source_kind,source_kind IN ('FOOD','CUSTOM_DISH','RECIPE')"`
	Quantity      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_diary_quantity,quantity > 0"`
	Calories      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_diary_calories,calories >= 0"`
	Protein       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_diary_protein,protein >= 0"`
	Carbohydrates decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_diary_carbohydrates,carbohydrates >= 0"`
	Fat           decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_diary_fat,fat >= 0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (DiaryEntryRow) TableName() string { return "diary_entries" }

func (r *DiaryEntryRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *DiaryEntryRow) toDomain() domain.DiaryEntry {
	return domain.DiaryEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       domain.DateOf(time.Time(r.EntryDate)),
		MealSlot:   r.MealSlot,
		SourceKind: domain.SourceKind(r.SourceKind),
		ItemID:     r.ItemID,
		Quantity:   r.Quantity,
		Nutrients:  nutrients(r.Calories, r.Protein, r.Carbohydrates, r.Fat),
		CreatedAt:  r.CreatedAt,
	}
}

func diaryRowFrom(e *domain.DiaryEntry) *DiaryEntryRow {
	return &DiaryEntryRow{
		ID:            e.ID,
		UserID:        e.UserID,
		EntryDate:     datatypes.Date(domain.DateOf(e.Date)),
		MealSlot:      e.MealSlot,
		ItemID:        e.ItemID,
		SourceKind:    string(e.SourceKind),
		Quantity:      e.Quantity,
		Calories:      e.Nutrients.Calories,
		Protein:       e.Nutrients.Protein,
		Carbohydrates: e.Nutrients.Carbohydrates,
		Fat:           e.Nutrients.Fat,
		CreatedAt:     e.CreatedAt,
	}
}

// NutritionTargetRow is the nutrition_targets table
type NutritionTargetRow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_target_user_effective,priority:1"`
	EffectiveFrom datatypes.Date  `gorm:"not null;index:idx_target_user_effective,priority:2"`
	Calories      int64           `gorm:"not null"`
	Protein       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Carbohydrates decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Fat           decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Source        string          `gorm:"size:32;not null"`
	Rationale     string          `gorm:"size:1000"`
	CreatedAt     time.Time
}

func (NutritionTargetRow) TableName() string { return "nutrition_targets" }

func (r *NutritionTargetRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *NutritionTargetRow) toDomain() domain.NutritionTarget {
	return domain.NutritionTarget{
		ID:            r.ID,
		UserID:        r.UserID,
		EffectiveFrom: domain.DateOf(time.Time(r.EffectiveFrom)),
		Calories:      r.Calories,
		Protein:       r.Protein,
		Carbohydrates: r.Carbohydrates,
		Fat:           r.Fat,
		Source:        r.Source,
		Rationale:     r.Rationale,
		CreatedAt:     r.CreatedAt,
	}
}

// BodyMetricRow is the body_metrics table
type BodyMetricRow struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_metric_user_measured,priority:1"`
	MeasuredOn datatypes.Date   `gorm:"not null;index:idx_metric_user_measured,priority:2"`
	WeightKg   *decimal.Decimal `gorm:"type:numeric(6,2)"`
	HeightCm   *decimal.Decimal `gorm:"type:numeric(6,2)"`
	WaistCm    *decimal.Decimal `gorm:"type:numeric(6,2)"`
	HipCm      *decimal.Decimal `gorm:"type:numeric(6,2)"`
	CreatedAt  time.Time
}

func (BodyMetricRow) TableName() string { return "body_metrics" }

func (r *BodyMetricRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *BodyMetricRow) toDomain() domain.BodyMetric {
	return domain.BodyMetric{
		ID:         r.ID,
		UserID:     r.UserID,
		MeasuredOn: domain.DateOf(time.Time(r.MeasuredOn)),
		WeightKg:   r.WeightKg,
		HeightCm:   r.HeightCm,
		WaistCm:    r.WaistCm,
		HipCm:      r.HipCm,
		CreatedAt:  r.CreatedAt,
	}
}

func nutrients(cal, protein, carbs, fat decimal.Decimal) domain.Nutrients {
	return domain.Nutrients{Calories: cal, Protein: protein, Carbohydrates: carbs, Fat: fat}
}

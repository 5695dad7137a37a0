package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"gorm.io/gorm"
)

// RecipeRepository stores recipes with their ordered ingredient rows
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	var row RecipeRow
	err := r.db.WithContext(ctx).
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "recipe "+id.String())
	}
	recipe := row.toDomain()
	return &recipe, nil
}

// CreateRecipe writes the recipe and its ingredients in one transaction
func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	row := &RecipeRow{
		ID:          recipe.ID,
		OwnerID:     recipe.OwnerID,
		Name:        recipe.Name,
		Description: recipe.Description,
		CreatedAt:   recipe.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients").Create(row).Error; err != nil {
			return err
		}
		if len(recipe.Ingredients) == 0 {
			return nil
		}
		ingredients := make([]RecipeIngredientRow, 0, len(recipe.Ingredients))
		for i, ing := range recipe.Ingredients {
			ingredients = append(ingredients, RecipeIngredientRow{
				RecipeID: row.ID,
				Position: i,
				FoodID:   ing.FoodID,
				Grams:    ing.Grams,
			})
		}
		return tx.Create(&ingredients).Error
	})
	if err != nil {
		return translateError(err, "recipe "+recipe.Name)
	}

	recipe.ID = row.ID
	recipe.CreatedAt = row.CreatedAt
	return nil
}

// DeleteRecipe soft-deletes a recipe owned by ownerID. Ingredient rows stay
// behind with the hidden recipe.
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&RecipeRow{})
	if res.Error != nil {
		return translateError(res.Error, "recipe "+id.String())
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "recipe "+id.String())
	}
	return nil
}

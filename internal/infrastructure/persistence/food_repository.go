package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"gorm.io/gorm"
)

// FoodRepository is the gorm-backed atomic food catalog
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

func (r *FoodRepository) GetFood(ctx context.Context, id uuid.UUID) (*domain.FoodItem, error) {
	var row FoodRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "food "+id.String())
	}
	food := row.toDomain()
	return &food, nil
}

// GetFoods loads every referenced food in one query. Missing ids are simply
// absent from the map.
func (r *FoodRepository) GetFoods(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.FoodItem, error) {
	out := make(map[uuid.UUID]domain.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []FoodRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, "foods")
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].toDomain()
	}
	return out, nil
}

func (r *FoodRepository) GetFoodByExternalRef(ctx context.Context, origin, ref string) (*domain.FoodItem, error) {
	var row FoodRow
	err := r.db.WithContext(ctx).
		Where("origin = ? AND external_ref = ?", origin, ref).
		First(&row).Error
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("food %s/%s", origin, ref))
	}
	food := row.toDomain()
	return &food, nil
}

// SearchFoods matches active foods by case-insensitive name substring
func (r *FoodRepository) SearchFoods(ctx context.Context, q domain.FoodQuery) ([]domain.FoodItem, error) {
	tx := r.db.WithContext(ctx).Model(&FoodRow{}).Where("active = ?", true)
	if name := strings.TrimSpace(q.Name); name != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name))
	}

	var rows []FoodRow
	if err := paginate(tx, q).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "food search")
	}

	foods := make([]domain.FoodItem, 0, len(rows))
	for i := range rows {
		foods = append(foods, rows[i].toDomain())
	}
	return foods, nil
}

func (r *FoodRepository) CreateFood(ctx context.Context, food *domain.FoodItem) error {
	row := foodRowFrom(food)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err, "food "+food.Name)
	}
	food.ID = row.ID
	food.CreatedAt = row.CreatedAt
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func paginate(tx *gorm.DB, q domain.FoodQuery) *gorm.DB {
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

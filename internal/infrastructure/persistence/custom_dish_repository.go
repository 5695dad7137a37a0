package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"gorm.io/gorm"
)

// CustomDishRepository stores user-authored dishes
type CustomDishRepository struct {
	db *gorm.DB
}

// NewCustomDishRepository creates a new custom dish repository
func NewCustomDishRepository(db *gorm.DB) *CustomDishRepository {
	return &CustomDishRepository{db: db}
}

func (r *CustomDishRepository) GetCustomDish(ctx context.Context, ownerID, id uuid.UUID) (*domain.CustomDish, error) {
	var row CustomDishRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err, "custom dish "+id.String())
	}
	dish := row.toDomain()
	return &dish, nil
}

func (r *CustomDishRepository) ListCustomDishes(ctx context.Context, ownerID uuid.UUID, q domain.FoodQuery) ([]domain.CustomDish, error) {
	tx := r.db.WithContext(ctx).Model(&CustomDishRow{}).Where("owner_id = ?", ownerID)
	if name := strings.TrimSpace(q.Name); name != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name))
	}

	var rows []CustomDishRow
	if err := paginate(tx, q).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "custom dishes")
	}

	dishes := make([]domain.CustomDish, 0, len(rows))
	for i := range rows {
		dishes = append(dishes, rows[i].toDomain())
	}
	return dishes, nil
}

func (r *CustomDishRepository) CreateCustomDish(ctx context.Context, dish *domain.CustomDish) error {
	row := &CustomDishRow{
		ID:            dish.ID,
		OwnerID:       dish.OwnerID,
		Name:          dish.Name,
		Description:   dish.Description,
		Calories:      dish.Per100.Calories,
		Protein:       dish.Per100.Protein,
		Carbohydrates: dish.Per100.Carbohydrates,
		Fat:           dish.Per100.Fat,
		CreatedAt:     dish.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err, "custom dish "+dish.Name)
	}
	dish.ID = row.ID
	dish.CreatedAt = row.CreatedAt
	return nil
}

// DeleteCustomDish soft-deletes the dish. Diary entries that reference it keep
// their frozen values.
func (r *CustomDishRepository) DeleteCustomDish(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&CustomDishRow{})
	if res.Error != nil {
		return translateError(res.Error, "custom dish "+id.String())
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "custom dish "+id.String())
	}
	return nil
}

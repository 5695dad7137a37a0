package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiaryRepository persists diary entries. Entries are hard-deleted so a
// removed tuple can be logged again.
type DiaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository creates a new diary repository
func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

func (r *DiaryRepository) CreateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	row := diaryRowFrom(entry)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err, "diary entry")
	}
	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	return nil
}

func (r *DiaryRepository) GetEntry(ctx context.Context, userID, id uuid.UUID) (*domain.DiaryEntry, error) {
	var row DiaryEntryRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err, "diary entry "+id.String())
	}
	entry := row.toDomain()
	return &entry, nil
}

// UpdateEntry rewrites the mutable columns of an existing entry. The unique
// index rejects an update that collides with another entry's tuple.
func (r *DiaryRepository) UpdateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	res := r.db.WithContext(ctx).
		Model(&DiaryEntryRow{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]any{
			"entry_date":    datatypes.Date(domain.DateOf(entry.Date)),
			"meal_slot":     entry.MealSlot,
			"item_id":       entry.ItemID,
			"source_kind":   string(entry.SourceKind),
			"quantity":      entry.Quantity,
			"calories":      entry.Nutrients.Calories,
			"protein":       entry.Nutrients.Protein,
			"carbohydrates": entry.Nutrients.Carbohydrates,
			"fat":           entry.Nutrients.Fat,
		})
	if res.Error != nil {
		return translateError(res.Error, "diary entry "+entry.ID.String())
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "diary entry "+entry.ID.String())
	}
	return nil
}

func (r *DiaryRepository) DeleteEntry(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&DiaryEntryRow{})
	if res.Error != nil {
		return translateError(res.Error, "diary entry "+id.String())
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "diary entry "+id.String())
	}
	return nil
}

// ListEntries returns the user's entries with dates in [from, to]
func (r *DiaryRepository) ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.DiaryEntry, error) {
	var rows []DiaryEntryRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date BETWEEN ? AND ?",
			userID, datatypes.Date(domain.DateOf(from)), datatypes.Date(domain.DateOf(to))).
		Order("entry_date ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "diary entries")
	}

	entries := make([]domain.DiaryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toDomain())
	}
	return entries, nil
}

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TargetRepository stores dated nutrition targets
type TargetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(db *gorm.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

func (r *TargetRepository) CreateTarget(ctx context.Context, target *domain.NutritionTarget) error {
	row := &NutritionTargetRow{
		ID:            target.ID,
		UserID:        target.UserID,
		EffectiveFrom: datatypes.Date(domain.DateOf(target.EffectiveFrom)),
		Calories:      target.Calories,
		Protein:       target.Protein,
		Carbohydrates: target.Carbohydrates,
		Fat:           target.Fat,
		Source:        target.Source,
		Rationale:     target.Rationale,
		CreatedAt:     target.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err, "nutrition target")
	}
	target.ID = row.ID
	target.CreatedAt = row.CreatedAt
	return nil
}

// CurrentTarget returns the row with the latest EffectiveFrom not after asOf.
// Rows sharing a date resolve to the most recently created.
func (r *TargetRepository) CurrentTarget(ctx context.Context, userID uuid.UUID, asOf time.Time) (*domain.NutritionTarget, error) {
	var row NutritionTargetRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND effective_from <= ?", userID, datatypes.Date(domain.DateOf(asOf))).
		Order("effective_from DESC").
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		return nil, translateError(err, "nutrition target")
	}
	target := row.toDomain()
	return &target, nil
}

// BodyMetricRepository stores the append-only body metric series
type BodyMetricRepository struct {
	db *gorm.DB
}

// NewBodyMetricRepository creates a new body metric repository
func NewBodyMetricRepository(db *gorm.DB) *BodyMetricRepository {
	return &BodyMetricRepository{db: db}
}

func (r *BodyMetricRepository) AddMetric(ctx context.Context, metric *domain.BodyMetric) error {
	row := &BodyMetricRow{
		ID:         metric.ID,
		UserID:     metric.UserID,
		MeasuredOn: datatypes.Date(domain.DateOf(metric.MeasuredOn)),
		WeightKg:   metric.WeightKg,
		HeightCm:   metric.HeightCm,
		WaistCm:    metric.WaistCm,
		HipCm:      metric.HipCm,
		CreatedAt:  metric.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err, "body metric")
	}
	metric.ID = row.ID
	metric.CreatedAt = row.CreatedAt
	return nil
}

func (r *BodyMetricRepository) LatestMetric(ctx context.Context, userID uuid.UUID) (*domain.BodyMetric, error) {
	var row BodyMetricRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("measured_on DESC").
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		return nil, translateError(err, "body metric")
	}
	metric := row.toDomain()
	return &metric, nil
}

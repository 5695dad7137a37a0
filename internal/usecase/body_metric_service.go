package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

// Fallbacks used by the suggestion when neither the request nor the stored
// series carries a value.
var (
	fallbackWeightKg = decimal.NewFromInt(60)
	fallbackHeightCm = decimal.NewFromInt(170)
)

const fallbackAgeYears = 30

// BodyMetricService appends body metric snapshots and derives a target
// suggestion for each one.
type BodyMetricService struct {
	metrics domain.BodyMetricRepository
	now     func() time.Time
}

// NewBodyMetricService creates a new body metric service
func NewBodyMetricService(metrics domain.BodyMetricRepository) *BodyMetricService {
	return &BodyMetricService{
		metrics: metrics,
		now:     time.Now,
	}
}

// AddBodyMetric stores the snapshot and returns it together with a suggestion
// computed from the submitted values. Missing weight or height fall back to
// the latest stored metric, then to fixed defaults.
func (s *BodyMetricService) AddBodyMetric(ctx context.Context, req domain.AddBodyMetricRequest) (*domain.BodyMetric, domain.TargetSuggestion, error) {
	if req.UserID == uuid.Nil {
		return nil, domain.TargetSuggestion{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	for name, v := range map[string]*decimal.Decimal{
		"weight": req.WeightKg, "height": req.HeightCm, "waist": req.WaistCm, "hip": req.HipCm,
	} {
		if v != nil && !v.IsPositive() {
			return nil, domain.TargetSuggestion{}, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidArgument, name)
		}
	}

	previous, err := s.metrics.LatestMetric(ctx, req.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.TargetSuggestion{}, err
	}

	measuredOn := s.now()
	if req.MeasuredOn != nil {
		measuredOn = *req.MeasuredOn
	}

	metric := &domain.BodyMetric{
		ID:         uuid.New(),
		UserID:     req.UserID,
		MeasuredOn: domain.DateOf(measuredOn),
		WeightKg:   round2Ptr(req.WeightKg),
		HeightCm:   round2Ptr(req.HeightCm),
		WaistCm:    round2Ptr(req.WaistCm),
		HipCm:      round2Ptr(req.HipCm),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.metrics.AddMetric(ctx, metric); err != nil {
		return nil, domain.TargetSuggestion{}, err
	}

	age := fallbackAgeYears
	if req.AgeYears != nil && *req.AgeYears > 0 {
		age = *req.AgeYears
	}

	suggestion := SuggestTarget(domain.SuggestionInput{
		WeightKg:     pick(metric.WeightKg, previousField(previous, func(m *domain.BodyMetric) *decimal.Decimal { return m.WeightKg }), fallbackWeightKg),
		HeightCm:     pick(metric.HeightCm, previousField(previous, func(m *domain.BodyMetric) *decimal.Decimal { return m.HeightCm }), fallbackHeightCm),
		AgeYears:     age,
		Sex:          req.Sex,
		ActivityCode: req.ActivityCode,
		GoalCode:     req.GoalCode,
	})

	return metric, suggestion, nil
}

// LatestMetric returns the snapshot with the greatest measured date.
func (s *BodyMetricService) LatestMetric(ctx context.Context, userID uuid.UUID) (*domain.BodyMetric, error) {
	return s.metrics.LatestMetric(ctx, userID)
}

func round2Ptr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := domain.Round2(*d)
	return &r
}

func previousField(m *domain.BodyMetric, get func(*domain.BodyMetric) *decimal.Decimal) *decimal.Decimal {
	if m == nil {
		return nil
	}
	return get(m)
}

func pick(current, previous *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if current != nil {
		return *current
	}
	if previous != nil {
		return *previous
	}
	return fallback
}

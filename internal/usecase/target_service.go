package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
)

// TargetService records and reads dated nutrition targets
type TargetService struct {
	targets domain.TargetRepository
	now     func() time.Time
}

// NewTargetService creates a new target service
func NewTargetService(targets domain.TargetRepository) *TargetService {
	return &TargetService{
		targets: targets,
		now:     time.Now,
	}
}

// CreateTarget stores a user-entered target. A zero EffectiveFrom means today.
func (s *TargetService) CreateTarget(ctx context.Context, req domain.CreateTargetRequest) (*domain.NutritionTarget, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	if req.Calories <= 0 {
		return nil, fmt.Errorf("%w: calories must be positive", domain.ErrInvalidArgument)
	}
	if req.Protein.IsNegative() || req.Carbohydrates.IsNegative() || req.Fat.IsNegative() {
		return nil, fmt.Errorf("%w: macronutrient grams must not be negative", domain.ErrInvalidArgument)
	}

	target := &domain.NutritionTarget{
		ID:            uuid.New(),
		UserID:        req.UserID,
		EffectiveFrom: s.effectiveDate(req.EffectiveFrom),
		Calories:      req.Calories,
		Protein:       domain.Round2(req.Protein),
		Carbohydrates: domain.Round2(req.Carbohydrates),
		Fat:           domain.Round2(req.Fat),
		Source:        domain.TargetSourceUser,
		Rationale:     req.Rationale,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.targets.CreateTarget(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// CurrentTarget returns the row with the latest effective date on or before
// asOf. A zero asOf means today.
func (s *TargetService) CurrentTarget(ctx context.Context, userID uuid.UUID, asOf time.Time) (*domain.NutritionTarget, error) {
	return s.targets.CurrentTarget(ctx, userID, s.effectiveDate(asOf))
}

// ApplySuggestion runs the suggestion engine and records the result as a
// system-suggested target. Calories are rounded to a whole number.
func (s *TargetService) ApplySuggestion(
	ctx context.Context,
	userID uuid.UUID,
	in domain.SuggestionInput,
	effectiveFrom time.Time,
) (*domain.NutritionTarget, domain.TargetSuggestion, error) {
	suggestion := SuggestTarget(in)

	calories := suggestion.Calories.Round(0).IntPart()
	if calories <= 0 {
		return nil, suggestion, fmt.Errorf("%w: suggested calories %s are not positive", domain.ErrInvalidState, suggestion.Calories)
	}
	if suggestion.Carbohydrates.IsNegative() {
		// Recorded as computed; the remainder split is not clamped.
		applog.Warn(ctx, "[targets] suggestion has negative carbohydrates",
			"user", userID, "calories", suggestion.Calories.String(), "carbohydrates", suggestion.Carbohydrates.String())
	}

	target := &domain.NutritionTarget{
		ID:            uuid.New(),
		UserID:        userID,
		EffectiveFrom: s.effectiveDate(effectiveFrom),
		Calories:      calories,
		Protein:       suggestion.Protein,
		Carbohydrates: suggestion.Carbohydrates,
		Fat:           suggestion.Fat,
		Source:        domain.TargetSourceSystem,
		Rationale:     rationale(suggestion),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.targets.CreateTarget(ctx, target); err != nil {
		return nil, suggestion, err
	}

	applog.Info(ctx, "[targets] suggestion applied", "user", userID, "calories", calories)
	return target, suggestion, nil
}

func (s *TargetService) effectiveDate(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	return domain.DateOf(t)
}

func rationale(sg domain.TargetSuggestion) string {
	goal := sg.GoalCode
	if goal == "" {
		goal = "none"
	}
	return fmt.Sprintf("BMR %s kcal x activity %s (%s) = TDEE %s kcal; goal %s x %s",
		sg.BMR.StringFixed(2), sg.Multiplier.String(), sg.ActivityCode,
		sg.TDEE.StringFixed(2), goal, sg.GoalFactor.String())
}

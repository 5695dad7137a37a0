package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target source tags
const (
	TargetSourceUser   = "user-entered"
	TargetSourceSystem = "system-suggested"
)

// NutritionTarget is a dated target row. Rows are never mutated; a newer
// EffectiveFrom supersedes older ones.
type NutritionTarget struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	EffectiveFrom time.Time       `json:"effectiveFrom"`
	Calories      int64           `json:"calories"`
	Protein       decimal.Decimal `json:"protein"`
	Carbohydrates decimal.Decimal `json:"carbohydrates"`
	Fat           decimal.Decimal `json:"fat"`
	Source        string          `json:"source"`
	Rationale     string          `json:"rationale,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// BodyMetric is a dated body measurement snapshot. Nil fields were not measured.
type BodyMetric struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"userId"`
	MeasuredOn time.Time        `json:"measuredOn"`
	WeightKg   *decimal.Decimal `json:"weightKg,omitempty"`
	HeightCm   *decimal.Decimal `json:"heightCm,omitempty"`
	WaistCm    *decimal.Decimal `json:"waistCm,omitempty"`
	HipCm      *decimal.Decimal `json:"hipCm,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// ActivityLevel maps an activity code to its TDEE multiplier
type ActivityLevel struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// DefaultActivityCode is used when the submitted activity code is unknown.
const DefaultActivityCode = "MODERATE"

// ActivityLevels is the fixed activity catalog, sedentary through very active.
var ActivityLevels = []ActivityLevel{
	{Code: "SEDENTARY", Name: "Sedentary", Multiplier: decimal.RequireFromString("1.2")},
	{Code: "LIGHT", Name: "Lightly active", Multiplier: decimal.RequireFromString("1.375")},
	{Code: "MODERATE", Name: "Moderately active", Multiplier: decimal.RequireFromString("1.55")},
	{Code: "ACTIVE", Name: "Active", Multiplier: decimal.RequireFromString("1.725")},
	{Code: "VERY_ACTIVE", Name: "Very active", Multiplier: decimal.RequireFromString("1.9")},
}

// Goal codes. The Vietnamese codes are the ones stored by existing clients;
// the English aliases are accepted as well.
const (
	GoalLoseWeight     = "GIAM_CAN"
	GoalMaintainWeight = "GIU_CAN"
	GoalGainWeight     = "TANG_CAN"
)

// SuggestionInput carries the body metrics and codes the suggestion engine
// works from.
type SuggestionInput struct {
	WeightKg     decimal.Decimal `json:"weightKg"`
	HeightCm     decimal.Decimal `json:"heightCm"`
	AgeYears     int             `json:"ageYears"`
	Sex          string          `json:"sex"`
	ActivityCode string          `json:"activityCode"`
	GoalCode     string          `json:"goalCode"`
}

// TargetSuggestion is the output of the suggestion engine. All values are
// rounded to two decimals. Carbohydrates is the remainder after protein and
// fat and may be negative for very low calorie inputs.
type TargetSuggestion struct {
	BMR           decimal.Decimal `json:"bmr"`
	TDEE          decimal.Decimal `json:"tdee"`
	Calories      decimal.Decimal `json:"calories"`
	Protein       decimal.Decimal `json:"protein"`
	Carbohydrates decimal.Decimal `json:"carbohydrates"`
	Fat           decimal.Decimal `json:"fat"`

	ActivityCode string          `json:"activityCode"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	GoalCode     string          `json:"goalCode,omitempty"`
	GoalFactor   decimal.Decimal `json:"goalFactor"`
}

// CreateTargetRequest is a user-entered target.
type CreateTargetRequest struct {
	UserID        uuid.UUID
	EffectiveFrom time.Time
	Calories      int64
	Protein       decimal.Decimal
	Carbohydrates decimal.Decimal
	Fat           decimal.Decimal
	Rationale     string
}

// AddBodyMetricRequest appends a body metric snapshot and carries the extra
// profile values used to compute a suggestion for it.
type AddBodyMetricRequest struct {
	UserID       uuid.UUID
	MeasuredOn   *time.Time
	WeightKg     *decimal.Decimal
	HeightCm     *decimal.Decimal
	WaistCm      *decimal.Decimal
	HipCm        *decimal.Decimal
	AgeYears     *int
	Sex          string
	ActivityCode string
	GoalCode     string
}

package usecase

import (
	"strings"

	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	bmrWeightFactor = decimal.NewFromInt(10)
	bmrHeightFactor = decimal.RequireFromString("6.25")
	bmrAgeFactor    = decimal.NewFromInt(5)
	maleConstant    = decimal.NewFromInt(5)
	femaleConstant  = decimal.NewFromInt(-161)

	proteinPerKg  = decimal.RequireFromString("1.8")
	fatEnergyPart = decimal.RequireFromString("0.25")
	kcalProtein   = decimal.NewFromInt(4)
	kcalCarb      = decimal.NewFromInt(4)
	kcalFat       = decimal.NewFromInt(9)

	neutralGoal = decimal.NewFromInt(1)
)

// maleTokens are the sex values mapped to the male BMR constant. Anything
// else, including empty input, gets the female constant.
var maleTokens = map[string]bool{
	"male": true,
	"m":    true,
	"nam":  true,
}

// goalFactors adjusts TDEE per canonical goal code. Unknown codes are neutral.
var goalFactors = map[string]decimal.Decimal{
	domain.GoalLoseWeight:     decimal.RequireFromString("0.85"),
	domain.GoalMaintainWeight: neutralGoal,
	domain.GoalGainWeight:     decimal.RequireFromString("1.15"),
}

// goalAliases maps English goal codes onto the canonical codes
var goalAliases = map[string]string{
	"LOSE":            domain.GoalLoseWeight,
	"LOSE_WEIGHT":     domain.GoalLoseWeight,
	"MAINTAIN":        domain.GoalMaintainWeight,
	"MAINTAIN_WEIGHT": domain.GoalMaintainWeight,
	"GAIN":            domain.GoalGainWeight,
	"GAIN_WEIGHT":     domain.GoalGainWeight,
}

// SuggestTarget computes BMR (Mifflin-St Jeor), TDEE, the goal-adjusted
// calorie target and the protein/fat/carbohydrate split.
//
// The function is total: unknown activity codes use the moderate multiplier,
// unknown goal codes are neutral and unrecognized sex tokens use the female
// constant. Carbohydrates absorb the remainder after protein and fat and are
// not clamped.
func SuggestTarget(in domain.SuggestionInput) domain.TargetSuggestion {
	bmr := bmrWeightFactor.Mul(in.WeightKg).
		Add(bmrHeightFactor.Mul(in.HeightCm)).
		Sub(bmrAgeFactor.Mul(decimal.NewFromInt(int64(in.AgeYears)))).
		Add(sexConstant(in.Sex))

	level := ActivityLevel(in.ActivityCode)
	tdee := bmr.Mul(level.Multiplier)

	goal, factor := GoalFactor(in.GoalCode)
	calories := tdee.Mul(factor)

	protein := domain.Round2(in.WeightKg.Mul(proteinPerKg))
	fat := domain.Round2(calories.Mul(fatEnergyPart).Div(kcalFat))
	carbs := domain.Round2(calories.Sub(protein.Mul(kcalProtein)).Sub(fat.Mul(kcalFat)).Div(kcalCarb))

	return domain.TargetSuggestion{
		BMR:           domain.Round2(bmr),
		TDEE:          domain.Round2(tdee),
		Calories:      domain.Round2(calories),
		Protein:       protein,
		Carbohydrates: carbs,
		Fat:           fat,
		ActivityCode:  level.Code,
		Multiplier:    level.Multiplier,
		GoalCode:      goal,
		GoalFactor:    factor,
	}
}

// ActivityLevel looks up an activity code case-insensitively, falling back to
// the moderate level.
func ActivityLevel(code string) domain.ActivityLevel {
	code = strings.ToUpper(strings.TrimSpace(code))
	var fallback domain.ActivityLevel
	for _, level := range domain.ActivityLevels {
		if level.Code == code {
			return level
		}
		if level.Code == domain.DefaultActivityCode {
			fallback = level
		}
	}
	return fallback
}

// GoalFactor returns the canonical goal code and its TDEE factor. English
// aliases resolve to the canonical code; unknown codes come back upper-cased
// with the neutral factor.
func GoalFactor(code string) (string, decimal.Decimal) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if canonical, ok := goalAliases[code]; ok {
		code = canonical
	}
	if factor, ok := goalFactors[code]; ok {
		return code, factor
	}
	return code, neutralGoal
}

func sexConstant(sex string) decimal.Decimal {
	if maleTokens[strings.ToLower(strings.TrimSpace(sex))] {
		return maleConstant
	}
	return femaleConstant
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept for every stored
// nutrient, quantity and target value.
const Precision = 2

var (
	// MaxQuantity bounds a single diary portion (100 kg or 100 l).
	MaxQuantity = decimal.NewFromInt(100_000)

	// MaxStoredValue is the largest value a numeric(10,2) column holds.
	MaxStoredValue = decimal.RequireFromString("99999999.99")
)

// hundred is the reference portion size densities are normalized to.
var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// Nutrients holds calories and the three macronutrients. Depending on where it
// appears it is either a density (per 100 g/ml) or an absolute amount.
type Nutrients struct {
	Calories      decimal.Decimal `json:"calories"`
	Protein       decimal.Decimal `json:"protein"`       // grams
	Carbohydrates decimal.Decimal `json:"carbohydrates"` // grams
	Fat           decimal.Decimal `json:"fat"`           // grams
}

// Add returns the axis-wise sum of n and o without rounding.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:      n.Calories.Add(o.Calories),
		Protein:       n.Protein.Add(o.Protein),
		Carbohydrates: n.Carbohydrates.Add(o.Carbohydrates),
		Fat:           n.Fat.Add(o.Fat),
	}
}

// Mul multiplies every axis by f.
func (n Nutrients) Mul(f decimal.Decimal) Nutrients {
	return Nutrients{
		Calories:      n.Calories.Mul(f),
		Protein:       n.Protein.Mul(f),
		Carbohydrates: n.Carbohydrates.Mul(f),
		Fat:           n.Fat.Mul(f),
	}
}

// Div divides every axis by d. d must be non-zero.
func (n Nutrients) Div(d decimal.Decimal) Nutrients {
	return Nutrients{
		Calories:      n.Calories.Div(d),
		Protein:       n.Protein.Div(d),
		Carbohydrates: n.Carbohydrates.Div(d),
		Fat:           n.Fat.Div(d),
	}
}

// Round2 rounds every axis independently to two decimal places.
func (n Nutrients) Round2() Nutrients {
	return Nutrients{
		Calories:      Round2(n.Calories),
		Protein:       Round2(n.Protein),
		Carbohydrates: Round2(n.Carbohydrates),
		Fat:           Round2(n.Fat),
	}
}

// HasNegative reports whether any axis is below zero.
func (n Nutrients) HasNegative() bool {
	return n.Calories.IsNegative() || n.Protein.IsNegative() ||
		n.Carbohydrates.IsNegative() || n.Fat.IsNegative()
}

// Exceeds reports whether any axis is above limit.
func (n Nutrients) Exceeds(limit decimal.Decimal) bool {
	return n.Calories.GreaterThan(limit) || n.Protein.GreaterThan(limit) ||
		n.Carbohydrates.GreaterThan(limit) || n.Fat.GreaterThan(limit)
}

// Equal compares all four axes numerically.
func (n Nutrients) Equal(o Nutrients) bool {
	return n.Calories.Equal(o.Calories) && n.Protein.Equal(o.Protein) &&
		n.Carbohydrates.Equal(o.Carbohydrates) && n.Fat.Equal(o.Fat)
}

// PerHundred converts an absolute amount contained in mass units into a
// per-100 density. mass must be positive.
func (n Nutrients) PerHundred(mass decimal.Decimal) Nutrients {
	return n.Mul(hundred).Div(mass)
}

// Portion scales a per-100 density to quantity units. The result is exact
// (no rounding); callers round once at the end.
func (n Nutrients) Portion(quantity decimal.Decimal) Nutrients {
	return Nutrients{
		Calories:      n.Calories.Mul(quantity).Shift(-2),
		Protein:       n.Protein.Mul(quantity).Shift(-2),
		Carbohydrates: n.Carbohydrates.Mul(quantity).Shift(-2),
		Fat:           n.Fat.Mul(quantity).Shift(-2),
	}
}

// DayTotals is the rollup of frozen diary values for a single date.
type DayTotals struct {
	Date    time.Time `json:"date"`
	Entries int       `json:"entries"`
	Nutrients
}

// WeekSummary groups day totals by ISO-8601 week.
type WeekSummary struct {
	Year  int         `json:"year"`
	Week  int         `json:"week"`
	From  time.Time   `json:"from"`
	To    time.Time   `json:"to"`
	Days  []DayTotals `json:"days"`
	Total Nutrients   `json:"total"`
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// ISOWeekBounds returns the Monday and Sunday of the ISO week containing date.
func ISOWeekBounds(date time.Time) (monday, sunday time.Time) {
	date = DateOf(date)
	offset := (int(date.Weekday()) + 6) % 7 // Monday = 0
	monday = date.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.015", "1.02"},
		{"2.675", "2.68"},
		{"-1.005", "-1.01"},
		{"2594.3125", "2594.31"},
		{"72.06423611", "72.06"},
		{"0.004", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round2(dec(tt.in))
			assert.True(t, got.Equal(dec(tt.want)), "Round2(%s) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestNutrientsArithmetic(t *testing.T) {
	a := Nutrients{Calories: dec("100"), Protein: dec("10"), Carbohydrates: dec("20"), Fat: dec("5")}
	b := Nutrients{Calories: dec("50.5"), Protein: dec("0.25"), Carbohydrates: dec("1"), Fat: dec("0")}

	sum := a.Add(b)
	assert.True(t, sum.Equal(Nutrients{Calories: dec("150.5"), Protein: dec("10.25"), Carbohydrates: dec("21"), Fat: dec("5")}))

	t.Run("per hundred", func(t *testing.T) {
		got := Nutrients{Calories: dec("250")}.PerHundred(dec("150")).Round2()
		assert.Equal(t, "166.67", got.Calories.StringFixed(2))
	})

	t.Run("round is applied per axis", func(t *testing.T) {
		n := Nutrients{Calories: dec("1.005"), Protein: dec("1.004"), Carbohydrates: dec("-0.005"), Fat: dec("9.999")}
		got := n.Round2()
		assert.Equal(t, "1.01", got.Calories.StringFixed(2))
		assert.Equal(t, "1.00", got.Protein.StringFixed(2))
		assert.Equal(t, "-0.01", got.Carbohydrates.StringFixed(2))
		assert.Equal(t, "10.00", got.Fat.StringFixed(2))
	})

	t.Run("negative detection", func(t *testing.T) {
		assert.False(t, a.HasNegative())
		assert.True(t, Nutrients{Fat: dec("-0.01")}.HasNegative())
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("30/12/2024")
	assert.Error(t, err)
}

func TestISOWeekBounds(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		wantMonday time.Time
	}{
		{"monday", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := ISOWeekBounds(tt.date)
			assert.Equal(t, tt.wantMonday, monday)
			assert.Equal(t, tt.wantMonday.AddDate(0, 0, 6), sunday)
			assert.Equal(t, time.Monday, monday.Weekday())
		})
	}
}

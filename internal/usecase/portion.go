package usecase

import (
	"fmt"

	"github.com/macrolens/diary/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputePortion scales a per-100 density to quantity grams or millilitres.
// Each axis is scaled exactly and then rounded half away from zero to two
// decimals; rounding never happens before scaling.
func ComputePortion(density domain.Nutrients, quantity decimal.Decimal) (domain.Nutrients, error) {
	if !quantity.IsPositive() {
		return domain.Nutrients{}, fmt.Errorf("%w: quantity must be positive, got %s", domain.ErrInvalidArgument, quantity)
	}
	return density.Portion(quantity).Round2(), nil
}

// internal/domain/pricing/pricing.go
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/promotion"
)

var oneHundred = decimal.NewFromInt(100)

// LineTotal returns unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeDiscount returns the discount a promotion grants on a line.
//
// PERCENTAGE discounts the line total by magnitude percent.
// FIXED_AMOUNT is interpreted per unit: the magnitude is multiplied by
// the quantity, not applied once per order.
func ComputeDiscount(unitPrice decimal.Decimal, quantity int, promo *promotion.Promotion) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}

	if promo.Kind == promotion.KindPercentage {
		return LineTotal(unitPrice, quantity).Mul(promo.Magnitude).Div(oneHundred)
	}
	return promo.Magnitude.Mul(decimal.NewFromInt(int64(quantity)))
}

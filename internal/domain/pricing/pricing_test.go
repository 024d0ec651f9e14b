package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/marketplace-backend/internal/domain/promotion"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotal(t *testing.T) {
	assert.True(t, dec("3000").Equal(LineTotal(dec("1000"), 3)))
	assert.True(t, dec("0").Equal(LineTotal(dec("1000"), 0)))
	assert.True(t, dec("19.98").Equal(LineTotal(dec("9.99"), 2)))
}

func TestComputeDiscount_NoPromotion(t *testing.T) {
	got := ComputeDiscount(dec("1000"), 3, nil)
	assert.True(t, got.IsZero())
}

func TestComputeDiscount_Percentage(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		magnitude string
		want      string
	}{
		{"ten percent", "1000", 3, "10", "300"},
		{"full discount", "250", 2, "100", "500"},
		{"fractional price", "9.99", 3, "50", "14.985"},
		{"single unit", "500", 1, "25", "125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := &promotion.Promotion{
				Kind:      promotion.KindPercentage,
				Magnitude: dec(tt.magnitude),
			}
			got := ComputeDiscount(dec(tt.unitPrice), tt.quantity, promo)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestComputeDiscount_FixedAmountIsPerUnit(t *testing.T) {
	promo := &promotion.Promotion{
		Kind:      promotion.KindFixedAmount,
		Magnitude: dec("50"),
	}

	// 50 off per unit, 4 units => 200, not 50.
	got := ComputeDiscount(dec("500"), 4, promo)
	assert.True(t, dec("200").Equal(got), "got %s", got)
}

func TestComputeDiscount_WorkedExamples(t *testing.T) {
	// price 1000, quantity 3, 10% promotion: discount 300, gross 3000, net 2700.
	promo := &promotion.Promotion{Kind: promotion.KindPercentage, Magnitude: dec("10")}
	gross := LineTotal(dec("1000"), 3)
	discount := ComputeDiscount(dec("1000"), 3, promo)
	assert.True(t, dec("3000").Equal(gross))
	assert.True(t, dec("300").Equal(discount))
	assert.True(t, dec("2700").Equal(gross.Sub(discount)))

	// price 500, quantity 4, fixed 50: discount 200, gross 2000, net 1800.
	promo = &promotion.Promotion{Kind: promotion.KindFixedAmount, Magnitude: dec("50")}
	gross = LineTotal(dec("500"), 4)
	discount = ComputeDiscount(dec("500"), 4, promo)
	assert.True(t, dec("2000").Equal(gross))
	assert.True(t, dec("200").Equal(discount))
	assert.True(t, dec("1800").Equal(gross.Sub(discount)))
}

func TestComputeDiscount_NoFloatDrift(t *testing.T) {
	// Repeated decimal accumulation stays exact.
	promo := &promotion.Promotion{Kind: promotion.KindPercentage, Magnitude: dec("10")}
	sum := decimal.Zero
	for i := 0; i < 1000; i++ {
		sum = sum.Add(ComputeDiscount(dec("0.10"), 1, promo))
	}
	assert.True(t, dec("10").Equal(sum), "got %s", sum)
}

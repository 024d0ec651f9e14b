package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
)

func validPromotion() *Promotion {
	return &Promotion{
		ProductID: 1,
		Kind:      KindPercentage,
		Magnitude: decimal.NewFromInt(10),
		Active:    true,
		StartsAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid percentage", func(t *testing.T) {
		require.NoError(t, validPromotion().Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		p := validPromotion()
		p.EndsAt = p.StartsAt.Add(-time.Hour)
		err := p.Validate()
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("end equals start", func(t *testing.T) {
		p := validPromotion()
		p.EndsAt = p.StartsAt
		assert.Error(t, p.Validate())
	})

	t.Run("percentage bounds", func(t *testing.T) {
		p := validPromotion()
		p.Magnitude = decimal.NewFromInt(0)
		assert.Error(t, p.Validate())

		p.Magnitude = decimal.NewFromInt(100)
		assert.NoError(t, p.Validate())

		p.Magnitude = decimal.NewFromFloat(100.01)
		assert.Error(t, p.Validate())
	})

	t.Run("fixed amount must be positive", func(t *testing.T) {
		p := validPromotion()
		p.Kind = KindFixedAmount
		p.Magnitude = decimal.NewFromInt(-5)
		assert.Error(t, p.Validate())

		p.Magnitude = decimal.NewFromInt(250)
		assert.NoError(t, p.Validate())
	})

	t.Run("unknown kind", func(t *testing.T) {
		p := validPromotion()
		p.Kind = "BOGOF"
		assert.Error(t, p.Validate())
	})
}

func TestActiveAt(t *testing.T) {
	p := validPromotion()

	assert.True(t, p.ActiveAt(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	// Window bounds are inclusive on both ends.
	assert.True(t, p.ActiveAt(p.StartsAt))
	assert.True(t, p.ActiveAt(p.EndsAt))

	assert.False(t, p.ActiveAt(p.StartsAt.Add(-time.Second)))
	assert.False(t, p.ActiveAt(p.EndsAt.Add(time.Second)))

	p.Active = false
	assert.False(t, p.ActiveAt(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
}

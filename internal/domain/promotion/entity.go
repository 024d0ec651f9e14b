// internal/domain/promotion/entity.go
package promotion

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Kind is the discount mode. The calculation is fixed two-mode, not
// user-programmable.
type Kind string

const (
	KindPercentage  Kind = "PERCENTAGE"
	KindFixedAmount Kind = "FIXED_AMOUNT"
)

// Promotion represents a time-bounded discount on one product.
type Promotion struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Kind      Kind            `gorm:"not null;size:20" json:"kind"`
	Magnitude decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"magnitude"`
	Active    bool            `gorm:"default:true" json:"active"`
	StartsAt  time.Time       `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time       `gorm:"not null" json:"ends_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides
func (Promotion) TableName() string { return "promotions" }

// Validate checks the window and magnitude invariants.
func (p *Promotion) Validate() error {
	if !p.EndsAt.After(p.StartsAt) {
		return apperrors.Validation("promotion end date must be after start date")
	}

	switch p.Kind {
	case KindPercentage:
		if !p.Magnitude.IsPositive() || p.Magnitude.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.Validation("percentage magnitude must be in (0, 100]")
		}
	case KindFixedAmount:
		if !p.Magnitude.IsPositive() {
			return apperrors.Validation("fixed amount magnitude must be positive")
		}
	default:
		return apperrors.Validation("promotion kind must be PERCENTAGE or FIXED_AMOUNT")
	}

	return nil
}

// ActiveAt reports whether the promotion applies to a purchase at the
// given instant: activation flag set and starts_at <= t <= ends_at.
func (p *Promotion) ActiveAt(t time.Time) bool {
	return p.Active && !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// internal/domain/promotion/resolver.go
package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Resolver finds the promotion applicable to a product at an instant.
// Callers freeze asOf once per checkout so every line of the same
// operation sees the same promotion set.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a new promotion resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// FindActive returns the active promotion for the product at asOf, or
// nil when none applies. When several windows overlap, the first match
// by id wins.
func (r *Resolver) FindActive(ctx context.Context, productID uint, asOf time.Time) (*Promotion, error) {
	var promo Promotion
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ? AND starts_at <= ? AND ends_at >= ?",
			productID, true, asOf, asOf).
		Order("id").
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to resolve promotion", err)
	}
	return &promo, nil
}

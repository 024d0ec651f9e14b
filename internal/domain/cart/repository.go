// internal/domain/cart/repository.go
package cart

import (
	"context"
	"errors"

	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository is the gorm-backed cart store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new cart repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByBuyer loads the buyer's cart with its lines and live product
// data. Returns (nil, nil) when the buyer has no cart yet.
func (r *Repository) GetByBuyer(ctx context.Context, buyerID uint) (*Cart, error) {
	var c Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id")
		}).
		Preload("Items.Product").
		Where("buyer_id = ?", buyerID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to load cart", err)
	}
	return &c, nil
}

// Save writes the cart and replaces its line set in one transaction,
// mirroring a whole-document replace.
func (r *Repository) Save(ctx context.Context, c *Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.ID == 0 {
			return tx.Create(c).Error
		}

		if err := tx.Model(c).Update("total", c.Total).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		if len(c.Items) > 0 {
			for i := range c.Items {
				c.Items[i].ID = 0
				c.Items[i].CartID = c.ID
			}
			if err := tx.Create(&c.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Internal("failed to save cart", err)
	}
	return nil
}

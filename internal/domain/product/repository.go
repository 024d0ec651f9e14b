// internal/domain/product/repository.go
package product

import (
	"context"
	"errors"

	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository is the gorm-backed product store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID loads a single active product.
func (r *Repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var prod Product
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("id = ? AND is_active = ?", id, true).
		First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %d not found", id)
		}
		return nil, apperrors.Internal("failed to load product", err)
	}
	return &prod, nil
}

// List returns active products, optionally filtered by store.
func (r *Repository) List(ctx context.Context, storeID *uint) ([]Product, error) {
	var products []Product
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apperrors.Internal("failed to list products", err)
	}
	return products, nil
}

// Save persists the product.
func (r *Repository) Save(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return apperrors.Internal("failed to save product", err)
	}
	return nil
}

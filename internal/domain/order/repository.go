// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"

	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// StockDecrement is one pending stock mutation for the delivery
// transition. ProductName is carried only for error reporting.
type StockDecrement struct {
	ProductID   uint
	ProductName string
	Quantity    int
}

// ListFilter narrows List results. Zero fields mean no filtering.
type ListFilter struct {
	BuyerID *uint
	StoreID *uint
	Status  *Status
	Page    int
	Limit   int
}

// Repository is the gorm-backed order store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order with its lines.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return apperrors.Internal("failed to create order", err)
	}
	return nil
}

// GetByID loads an order with its lines and display references.
func (r *Repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id")
		}).
		Preload("Buyer").
		Preload("Store").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", id)
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &o, nil
}

// List returns orders matching the filter, newest first, with the
// total count for pagination.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&Order{})

	if f.BuyerID != nil {
		query = query.Where("buyer_id = ?", *f.BuyerID)
	}
	if f.StoreID != nil {
		query = query.Where("store_id = ?", *f.StoreID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count orders", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}

	var orders []Order
	err := query.
		Preload("Items").
		Preload("Buyer").
		Preload("Store").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list orders", err)
	}
	return orders, total, nil
}

// UpdateStatus writes a new status without side effects.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uint, status Status) error {
	err := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
	if err != nil {
		return apperrors.Internal("failed to update order status", err)
	}
	return nil
}

// Deliver commits the DELIVERED transition: every stock decrement and
// the status write succeed in one transaction or none do. Each
// decrement re-checks availability in the same conditional UPDATE that
// mutates it, so a shortfall aborts with stock and status untouched.
func (r *Repository) Deliver(ctx context.Context, orderID uint, decrements []StockDecrement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range decrements {
			result := tx.Model(&product.Product{}).
				Where("id = ? AND stock >= ?", d.ProductID, d.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", d.Quantity))
			if result.Error != nil {
				return apperrors.Internal("failed to decrement stock", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperrors.Validation("insufficient stock for product '%s'", d.ProductName)
			}
		}

		err := tx.Model(&Order{}).
			Where("id = ?", orderID).
			Update("status", StatusDelivered).Error
		if err != nil {
			return apperrors.Internal("failed to update order status", err)
		}
		return nil
	})
}

// Save persists administrative edits to an order.
func (r *Repository) Save(ctx context.Context, o *Order) error {
	if err := r.db.WithContext(ctx).Save(o).Error; err != nil {
		return apperrors.Internal("failed to save order", err)
	}
	return nil
}

// Delete soft-deletes an order.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Order{}, id)
	if result.Error != nil {
		return apperrors.Internal("failed to delete order", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("order %d not found", id)
	}
	return nil
}

// internal/domain/promotion/service.go
package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles promotion management for shop owners.
type Service struct {
	db       *gorm.DB
	products *product.Repository
}

// NewService creates a new promotion service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, products: product.NewRepository(db)}
}

// CreatePromotionRequest represents promotion creation data
type CreatePromotionRequest struct {
	ProductID uint      `json:"product_id" binding:"required"`
	Kind      Kind      `json:"kind" binding:"required"`
	Magnitude string    `json:"magnitude" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
	Active    *bool     `json:"active"`
}

// CreatePromotion creates a promotion for a product the actor owns.
func (s *Service) CreatePromotion(ctx context.Context, actor user.Actor, req *CreatePromotionRequest) (*Promotion, error) {
	prod, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.OwnsStore(prod.StoreID) {
		return nil, apperrors.Authorization("product %d does not belong to your store", req.ProductID)
	}

	magnitude, err := decimal.NewFromString(req.Magnitude)
	if err != nil {
		return nil, apperrors.Validation("magnitude must be a decimal number")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	promo := &Promotion{
		ProductID: req.ProductID,
		Kind:      req.Kind,
		Magnitude: magnitude,
		Active:    active,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
	if err := promo.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, apperrors.Internal("failed to create promotion", err)
	}
	return promo, nil
}

// ListByProduct lists all promotions declared on a product.
func (s *Service) ListByProduct(ctx context.Context, productID uint) ([]Promotion, error) {
	var promos []Promotion
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("starts_at DESC").
		Find(&promos).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list promotions", err)
	}
	return promos, nil
}

// SetActive flips the activation flag on a promotion the actor owns.
func (s *Service) SetActive(ctx context.Context, actor user.Actor, promotionID uint, active bool) (*Promotion, error) {
	var promo Promotion
	if err := s.db.WithContext(ctx).First(&promo, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("promotion %d not found", promotionID)
		}
		return nil, apperrors.Internal("failed to load promotion", err)
	}

	prod, err := s.products.GetByID(ctx, promo.ProductID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.OwnsStore(prod.StoreID) {
		return nil, apperrors.Authorization("promotion %d does not belong to your store", promotionID)
	}

	promo.Active = active
	if err := s.db.WithContext(ctx).Save(&promo).Error; err != nil {
		return nil, apperrors.Internal("failed to update promotion", err)
	}
	return &promo, nil
}

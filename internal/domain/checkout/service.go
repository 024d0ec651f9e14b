// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/pricing"
	"github.com/your-org/marketplace-backend/internal/domain/promotion"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// CartStore reads and clears the buyer's cart.
type CartStore interface {
	GetByBuyer(ctx context.Context, buyerID uint) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
}

// PromotionResolver finds the promotion applicable to a product at the
// frozen checkout instant.
type PromotionResolver interface {
	FindActive(ctx context.Context, productID uint, asOf time.Time) (*promotion.Promotion, error)
}

// OrderStore persists and reloads created orders.
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id uint) (*order.Order, error)
}

// Service converts a validated cart into an order. Stock is checked
// here but not reserved; the decrement happens at delivery.
type Service struct {
	carts      CartStore
	orders     OrderStore
	promotions PromotionResolver
	config     *config.Config
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		carts:      cart.NewRepository(db),
		orders:     order.NewRepository(db),
		promotions: promotion.NewResolver(db),
		config:     cfg,
	}
}

// NewServiceWith wires explicit collaborators.
func NewServiceWith(carts CartStore, orders OrderStore, promotions PromotionResolver, cfg *config.Config) *Service {
	return &Service{carts: carts, orders: orders, promotions: promotions, config: cfg}
}

// ValidateAndCheckout turns the buyer's cart into a PENDING order.
//
// The whole cart is validated before anything is written: an empty
// cart or any stock shortfall aborts with no order created and the
// cart untouched. The cart is cleared only after the order write has
// succeeded. The promotion timestamp is frozen once for the entire
// operation so no line can straddle a window boundary.
func (s *Service) ValidateAndCheckout(ctx context.Context, buyerID uint, withDelivery bool) ([]*order.Order, error) {
	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsEmpty() {
		return nil, apperrors.Validation("cart is empty")
	}

	// Availability and stock pre-check across every line before
	// creating anything.
	for _, item := range c.Items {
		if item.Product == nil || !item.Product.IsActive {
			return nil, apperrors.Validation("product '%s' is no longer available", item.ProductName)
		}
		if !item.Product.HasStock(item.Quantity) {
			return nil, apperrors.Validation("insufficient stock for product '%s'", item.Product.Name)
		}
	}

	now := time.Now().UTC()

	grossTotal := decimal.Zero
	discountTotal := decimal.Zero
	items := make([]order.OrderItem, 0, len(c.Items))

	for _, item := range c.Items {
		promo, err := s.promotions.FindActive(ctx, item.ProductID, now)
		if err != nil {
			return nil, err
		}

		grossTotal = grossTotal.Add(pricing.LineTotal(item.UnitPrice, item.Quantity))
		discountTotal = discountTotal.Add(pricing.ComputeDiscount(item.UnitPrice, item.Quantity, promo))

		items = append(items, order.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ImageURL:    item.Product.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			StoreID:     item.Product.StoreID,
		})
	}

	deliveryFee := decimal.Zero
	if withDelivery {
		// Flat fee, once per order, regardless of lines or stores.
		deliveryFee = s.config.Checkout.DeliveryFee
	}

	o := &order.Order{
		OrderNumber:   order.GenerateOrderNumber(),
		BuyerID:       buyerID,
		StoreID:       singleStoreID(items),
		Status:        order.StatusPending,
		GrossTotal:    grossTotal,
		DiscountTotal: discountTotal,
		DeliveryFee:   deliveryFee,
		NetTotal:      grossTotal.Sub(discountTotal).Add(deliveryFee),
		WithDelivery:  withDelivery,
		Items:         items,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		// Cart is left exactly as it was.
		return nil, err
	}

	c.Items = nil
	c.RecomputeTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	created, err := s.orders.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return []*order.Order{created}, nil
}

// singleStoreID returns the shared store when every line belongs to
// one store, nil when lines span stores.
func singleStoreID(items []order.OrderItem) *uint {
	if len(items) == 0 {
		return nil
	}
	storeID := items[0].StoreID
	for _, item := range items[1:] {
		if item.StoreID != storeID {
			return nil
		}
	}
	return &storeID
}

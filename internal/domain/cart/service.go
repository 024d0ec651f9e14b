// internal/domain/cart/service.go
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// ProductLookup is the catalog collaborator the cart consumes.
type ProductLookup interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// Store persists carts.
type Store interface {
	GetByBuyer(ctx context.Context, buyerID uint) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}

// Service handles cart business logic
type Service struct {
	carts    Store
	products ProductLookup
}

// NewService creates a new cart service
func NewService(db *gorm.DB) *Service {
	return &Service{
		carts:    NewRepository(db),
		products: product.NewRepository(db),
	}
}

// NewServiceWith wires explicit collaborators.
func NewServiceWith(carts Store, products ProductLookup) *Service {
	return &Service{carts: carts, products: products}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart returns the buyer's cart, or an empty one if none exists yet.
func (s *Service) GetCart(ctx context.Context, buyerID uint) (*Cart, error) {
	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Cart{BuyerID: buyerID, Items: []CartItem{}, Total: decimal.Zero}, nil
	}
	return c, nil
}

// AddItem adds quantity of a product to the cart. If a line for the
// product already exists its quantity is incremented; the price
// snapshot taken when the line was first added is kept as-is.
func (s *Service) AddItem(ctx context.Context, buyerID uint, req *AddToCartRequest) (*Cart, error) {
	if req.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	prod, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		// First add creates the cart.
		c = &Cart{BuyerID: buyerID}
	}

	if i := c.FindItem(req.ProductID); i >= 0 {
		c.Items[i].Quantity += req.Quantity
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			UnitPrice:   prod.UnitPrice,
			Quantity:    req.Quantity,
		})
	}

	c.RecomputeTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, buyerID)
}

// UpdateItemQuantity sets the absolute quantity of an existing line.
func (s *Service) UpdateItemQuantity(ctx context.Context, buyerID, productID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("cart not found")
	}

	i := c.FindItem(productID)
	if i < 0 {
		return nil, apperrors.NotFound("product %d not found in cart", productID)
	}

	c.Items[i].Quantity = quantity
	c.RecomputeTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, buyerID)
}

// RemoveItem removes the line for a product. A missing line is an error.
func (s *Service) RemoveItem(ctx context.Context, buyerID, productID uint) (*Cart, error) {
	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("cart not found")
	}

	i := c.FindItem(productID)
	if i < 0 {
		return nil, apperrors.NotFound("product %d not found in cart", productID)
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.RecomputeTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, buyerID)
}

// Clear empties the cart without deleting it.
func (s *Service) Clear(ctx context.Context, buyerID uint) (*Cart, error) {
	c, err := s.carts.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Cart{BuyerID: buyerID, Items: []CartItem{}, Total: decimal.Zero}, nil
	}

	c.Items = nil
	c.RecomputeTotal()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	c.Items = []CartItem{}
	return c, nil
}

// internal/domain/product/service.go
package product

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Store is the catalog persistence the service depends on.
type Store interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, storeID *uint) ([]Product, error)
	Save(ctx context.Context, p *Product) error
}

// Service handles catalog business logic. The order core only consumes
// the lookup side; the write side exists for shop owners and admins.
type Service struct {
	products Store
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{products: NewRepository(db)}
}

// NewServiceWith wires the service onto an explicit store.
func NewServiceWith(products Store) *Service {
	return &Service{products: products}
}

// CreateProductRequest represents product creation data. StoreID is
// only honored for admins; shop accounts always create in their own
// store.
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Kind        Kind   `json:"kind" binding:"required"`
	Stock       int    `json:"stock"`
	Deliverable bool   `json:"deliverable"`
	ImageURL    string `json:"image_url"`
	StoreID     *uint  `json:"store_id"`
}

// GetProduct returns a single product for display.
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts lists active products, optionally scoped to a store.
func (s *Service) ListProducts(ctx context.Context, storeID *uint) ([]Product, error) {
	return s.products.List(ctx, storeID)
}

// CreateProduct creates a product. Shop accounts create in their own
// store; admins must name the target store explicitly.
func (s *Service) CreateProduct(ctx context.Context, actor user.Actor, req *CreateProductRequest) (*Product, error) {
	var storeID uint
	switch {
	case actor.Role == user.RoleShop && actor.StoreID != nil:
		storeID = *actor.StoreID
	case actor.IsAdmin():
		if req.StoreID == nil {
			return nil, apperrors.Validation("store_id is required when creating a product as admin")
		}
		storeID = *req.StoreID
	default:
		return nil, apperrors.Authorization("only shop and admin accounts can create products")
	}

	price, err := validateProductRequest(req)
	if err != nil {
		return nil, err
	}

	prod := &Product{
		StoreID:     storeID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   price,
		Kind:        req.Kind,
		Stock:       req.Stock,
		Deliverable: req.Deliverable,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}

	// Services carry no stock and cannot be delivered.
	if prod.Kind == KindService {
		prod.Stock = 0
		prod.Deliverable = false
	}

	if err := s.products.Save(ctx, prod); err != nil {
		return nil, err
	}
	return prod, nil
}

// UpdateProduct updates a product the actor owns. Admins may edit any.
func (s *Service) UpdateProduct(ctx context.Context, actor user.Actor, id uint, req *CreateProductRequest) (*Product, error) {
	prod, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.OwnsStore(prod.StoreID) {
		return nil, apperrors.Authorization("product %d does not belong to your store", id)
	}

	price, err := validateProductRequest(req)
	if err != nil {
		return nil, err
	}

	prod.Name = req.Name
	prod.Description = req.Description
	prod.UnitPrice = price
	prod.Kind = req.Kind
	prod.Stock = req.Stock
	prod.Deliverable = req.Deliverable
	prod.ImageURL = req.ImageURL

	if prod.Kind == KindService {
		prod.Stock = 0
		prod.Deliverable = false
	}

	if err := s.products.Save(ctx, prod); err != nil {
		return nil, err
	}
	return prod, nil
}

func validateProductRequest(req *CreateProductRequest) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || price.IsNegative() {
		return decimal.Zero, apperrors.Validation("unit_price must be a non-negative decimal")
	}
	if !req.Kind.Valid() {
		return decimal.Zero, apperrors.Validation("kind must be PHYSICAL_GOOD or SERVICE")
	}
	if req.Stock < 0 {
		return decimal.Zero, apperrors.Validation("stock cannot be negative")
	}
	return price, nil
}

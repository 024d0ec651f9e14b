// internal/domain/order/service.go
package order

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Store persists orders and commits the delivery transition.
type Store interface {
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status) error
	Deliver(ctx context.Context, orderID uint, decrements []StockDecrement) error
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uint) error
}

// ProductLookup is the catalog collaborator consulted at delivery time.
type ProductLookup interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// Service handles order business logic: the status state machine with
// its role policy, role-filtered reads, and administrative edits.
// Orders are only ever created through checkout.
type Service struct {
	orders   Store
	products ProductLookup
}

// NewService creates a new order service
func NewService(db *gorm.DB) *Service {
	return &Service{
		orders:   NewRepository(db),
		products: product.NewRepository(db),
	}
}

// NewServiceWith wires explicit collaborators.
func NewServiceWith(orders Store, products ProductLookup) *Service {
	return &Service{orders: orders, products: products}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page    int     `form:"page,default=1"`
	Limit   int     `form:"limit,default=20"`
	Status  *Status `form:"status"`
	StoreID *uint   `form:"store_id"`
}

// OrderListResponse represents orders with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// UpdateOrderRequest represents an administrative full-record edit.
type UpdateOrderRequest struct {
	GrossTotal    *string `json:"gross_total"`
	DiscountTotal *string `json:"discount_total"`
	DeliveryFee   *string `json:"delivery_fee"`
	WithDelivery  *bool   `json:"with_delivery"`
}

// Transition drives an order through the state machine. Authorization
// is checked before transition validity: buyers may only touch their
// own order and only while it is still PENDING, shops only orders of
// their own store, admins anything.
func (s *Service) Transition(ctx context.Context, orderID uint, actor user.Actor, target Status) (*Order, error) {
	if !target.Valid() {
		return nil, apperrors.Validation("unknown order status '%s'", target)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(actor, o); err != nil {
		return nil, err
	}

	// Admins may skip intermediate statuses; terminal states stay
	// final for everyone.
	if !o.Status.CanTransitionTo(target) {
		if !actor.IsAdmin() || o.Status.IsTerminal() {
			return nil, apperrors.InvalidTransition(string(o.Status), string(target))
		}
	}

	// An order placed without delivery never passes through IN_DELIVERY.
	if target == StatusInDelivery && !o.WithDelivery {
		return nil, apperrors.Validation("order %d was placed without delivery", orderID)
	}

	if target == StatusDelivered {
		decrements, err := s.buildStockDecrements(ctx, o)
		if err != nil {
			return nil, err
		}
		if err := s.orders.Deliver(ctx, o.ID, decrements); err != nil {
			return nil, err
		}
	} else {
		if err := s.orders.UpdateStatus(ctx, o.ID, target); err != nil {
			return nil, err
		}
	}

	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) authorizeTransition(actor user.Actor, o *Order) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleBuyer:
		if o.BuyerID != actor.UserID {
			return apperrors.Authorization("order %d does not belong to you", o.ID)
		}
		// Once the order leaves PENDING the buyer loses mutation rights.
		if o.Status != StatusPending {
			return apperrors.Authorization("buyers may only act on pending orders")
		}
		return nil
	case user.RoleShop:
		if o.StoreID == nil || !actor.OwnsStore(*o.StoreID) {
			return apperrors.Authorization("order %d does not belong to your store", o.ID)
		}
		return nil
	default:
		return apperrors.Authorization("role '%s' may not update orders", actor.Role)
	}
}

// buildStockDecrements collects the stock mutations delivery requires:
// one per PHYSICAL_GOOD line, none for services. The atomic re-check
// happens inside the store when the decrements are applied.
func (s *Service) buildStockDecrements(ctx context.Context, o *Order) ([]StockDecrement, error) {
	var decrements []StockDecrement
	for _, item := range o.Items {
		prod, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !prod.TracksStock() {
			continue
		}
		decrements = append(decrements, StockDecrement{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return decrements, nil
}

// GetOrder returns a single order the actor is allowed to see.
func (s *Service) GetOrder(ctx context.Context, actor user.Actor, id uint) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleBuyer:
		if o.BuyerID != actor.UserID {
			return nil, apperrors.Authorization("order %d does not belong to you", id)
		}
	case user.RoleShop:
		if o.StoreID == nil || !actor.OwnsStore(*o.StoreID) {
			return nil, apperrors.Authorization("order %d does not belong to your store", id)
		}
	default:
		return nil, apperrors.Authorization("role '%s' may not read orders", actor.Role)
	}

	return o, nil
}

// ListOrders returns orders scoped by the actor's role: buyers see
// their own, shops their store's, admins everything.
func (s *Service) ListOrders(ctx context.Context, actor user.Actor, req *OrderListRequest) (*OrderListResponse, error) {
	filter := ListFilter{
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.Limit,
	}

	switch actor.Role {
	case user.RoleBuyer:
		buyerID := actor.UserID
		filter.BuyerID = &buyerID
	case user.RoleShop:
		if actor.StoreID == nil {
			return nil, apperrors.Authorization("shop account has no store")
		}
		filter.StoreID = actor.StoreID
	case user.RoleAdmin:
		filter.StoreID = req.StoreID
	default:
		return nil, apperrors.Authorization("role '%s' may not list orders", actor.Role)
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateOrder applies an administrative full-record edit. The net
// total invariant is re-established from the edited aggregates.
func (s *Service) UpdateOrder(ctx context.Context, actor user.Actor, id uint, req *UpdateOrderRequest) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Authorization("only administrators may edit orders")
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GrossTotal != nil {
		v, err := decimal.NewFromString(*req.GrossTotal)
		if err != nil || v.IsNegative() {
			return nil, apperrors.Validation("gross_total must be a non-negative decimal")
		}
		o.GrossTotal = v
	}
	if req.DiscountTotal != nil {
		v, err := decimal.NewFromString(*req.DiscountTotal)
		if err != nil || v.IsNegative() {
			return nil, apperrors.Validation("discount_total must be a non-negative decimal")
		}
		o.DiscountTotal = v
	}
	if req.DeliveryFee != nil {
		v, err := decimal.NewFromString(*req.DeliveryFee)
		if err != nil || v.IsNegative() {
			return nil, apperrors.Validation("delivery_fee must be a non-negative decimal")
		}
		o.DeliveryFee = v
	}
	if req.WithDelivery != nil {
		o.WithDelivery = *req.WithDelivery
	}

	o.NetTotal = o.GrossTotal.Sub(o.DiscountTotal).Add(o.DeliveryFee)

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

// DeleteOrder removes an order. Administrative only.
func (s *Service) DeleteOrder(ctx context.Context, actor user.Actor, id uint) error {
	if !actor.IsAdmin() {
		return apperrors.Authorization("only administrators may delete orders")
	}
	return s.orders.Delete(ctx, id)
}

package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
)

type mockProducts struct {
	products map[uint]*product.Product
}

func (m *mockProducts) GetByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperrors.NotFound("product %d not found", id)
	}
	return p, nil
}

type mockOrderStore struct {
	orders       map[uint]*Order
	catalog      *mockProducts
	deliverCalls int
}

func (m *mockOrderStore) GetByID(_ context.Context, id uint) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order %d not found", id)
	}
	return o, nil
}

func (m *mockOrderStore) List(_ context.Context, f ListFilter) ([]Order, int64, error) {
	var out []Order
	for _, o := range m.orders {
		if f.BuyerID != nil && o.BuyerID != *f.BuyerID {
			continue
		}
		if f.StoreID != nil && (o.StoreID == nil || *o.StoreID != *f.StoreID) {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, orderID uint, status Status) error {
	m.orders[orderID].Status = status
	return nil
}

func (m *mockOrderStore) Deliver(_ context.Context, orderID uint, decrements []StockDecrement) error {
	m.deliverCalls++
	// All-or-nothing, like the transactional implementation.
	for _, d := range decrements {
		if m.catalog.products[d.ProductID].Stock < d.Quantity {
			return apperrors.Validation("insufficient stock for product '%s'", d.ProductName)
		}
	}
	for _, d := range decrements {
		m.catalog.products[d.ProductID].Stock -= d.Quantity
	}
	m.orders[orderID].Status = StatusDelivered
	return nil
}

func (m *mockOrderStore) Save(_ context.Context, o *Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderStore) Delete(_ context.Context, id uint) error {
	if _, ok := m.orders[id]; !ok {
		return apperrors.NotFound("order %d not found", id)
	}
	delete(m.orders, id)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func uintPtr(v uint) *uint { return &v }

var (
	buyerActor = user.Actor{UserID: 10, Role: user.RoleBuyer}
	adminActor = user.Actor{UserID: 1, Role: user.RoleAdmin}
	shopActor  = user.Actor{UserID: 20, Role: user.RoleShop, StoreID: uintPtr(5)}
)

func fixture() (*Service, *mockOrderStore, *mockProducts) {
	catalog := &mockProducts{products: map[uint]*product.Product{
		7: {ID: 7, StoreID: 5, Name: "Lamp", UnitPrice: dec("1000"), Kind: product.KindPhysicalGood, Stock: 10},
		8: {ID: 8, StoreID: 5, Name: "Consulting", UnitPrice: dec("5000"), Kind: product.KindService},
	}}
	orders := &mockOrderStore{
		catalog: catalog,
		orders: map[uint]*Order{
			1: {
				ID: 1, OrderNumber: "ORD-1", BuyerID: 10, StoreID: uintPtr(5),
				Status: StatusPending, WithDelivery: true,
				GrossTotal: dec("3000"), DiscountTotal: dec("0"), DeliveryFee: dec("0"), NetTotal: dec("3000"),
				Items: []OrderItem{
					{OrderID: 1, ProductID: 7, ProductName: "Lamp", Quantity: 3, UnitPrice: dec("1000"), StoreID: 5},
				},
			},
		},
	}
	return NewServiceWith(orders, catalog), orders, catalog
}

func TestTransition_BuyerCancelsOwnPendingOrder(t *testing.T) {
	svc, orders, _ := fixture()

	o, err := svc.Transition(context.Background(), 1, buyerActor, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, 0, orders.deliverCalls)
}

func TestTransition_BuyerCannotJumpToDelivered(t *testing.T) {
	svc, orders, catalog := fixture()

	// The policy admits the buyer on a pending order but the table has
	// no PENDING -> DELIVERED edge.
	_, err := svc.Transition(context.Background(), 1, buyerActor, StatusDelivered)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
	assert.Equal(t, StatusPending, orders.orders[1].Status)
	assert.Equal(t, 10, catalog.products[7].Stock)
}

func TestTransition_BuyerLosesRightsAfterPending(t *testing.T) {
	svc, orders, _ := fixture()
	orders.orders[1].Status = StatusConfirmed

	_, err := svc.Transition(context.Background(), 1, buyerActor, StatusCancelled)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestTransition_BuyerCannotTouchForeignOrder(t *testing.T) {
	svc, _, _ := fixture()
	other := user.Actor{UserID: 99, Role: user.RoleBuyer}

	_, err := svc.Transition(context.Background(), 1, other, StatusCancelled)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestTransition_AdminDeliveryDecrementsStockOnce(t *testing.T) {
	svc, orders, catalog := fixture()
	ctx := context.Background()

	// Stock is untouched by confirmation.
	_, err := svc.Transition(ctx, 1, adminActor, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, 10, catalog.products[7].Stock)

	o, err := svc.Transition(ctx, 1, adminActor, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, 7, catalog.products[7].Stock)
	assert.Equal(t, 1, orders.deliverCalls)
}

func TestTransition_AdminDeliversPendingOrderDirectly(t *testing.T) {
	svc, orders, catalog := fixture()

	// The table has no PENDING -> DELIVERED edge, but admins may skip
	// intermediate statuses.
	o, err := svc.Transition(context.Background(), 1, adminActor, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, 7, catalog.products[7].Stock)
	assert.Equal(t, 1, orders.deliverCalls)
}

func TestTransition_ServiceLinesSkipStock(t *testing.T) {
	svc, orders, catalog := fixture()
	orders.orders[1].Status = StatusConfirmed
	orders.orders[1].Items = []OrderItem{
		{OrderID: 1, ProductID: 8, ProductName: "Consulting", Quantity: 2, UnitPrice: dec("5000"), StoreID: 5},
	}

	o, err := svc.Transition(context.Background(), 1, adminActor, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, 0, catalog.products[8].Stock)
}

func TestTransition_DeliveryFailsOnStockShortfall(t *testing.T) {
	svc, orders, catalog := fixture()
	orders.orders[1].Status = StatusConfirmed
	catalog.products[7].Stock = 2 // depleted since order creation

	_, err := svc.Transition(context.Background(), 1, adminActor, StatusDelivered)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "Lamp")

	// Prior status and stock are untouched.
	assert.Equal(t, StatusConfirmed, orders.orders[1].Status)
	assert.Equal(t, 2, catalog.products[7].Stock)
}

func TestTransition_InDeliveryRequiresDeliveryFlag(t *testing.T) {
	svc, orders, _ := fixture()
	orders.orders[1].Status = StatusConfirmed
	orders.orders[1].WithDelivery = false

	_, err := svc.Transition(context.Background(), 1, adminActor, StatusInDelivery)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, StatusConfirmed, orders.orders[1].Status)
}

func TestTransition_ShopScopedToOwnStore(t *testing.T) {
	svc, orders, _ := fixture()
	ctx := context.Background()

	o, err := svc.Transition(ctx, 1, shopActor, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)

	otherShop := user.Actor{UserID: 30, Role: user.RoleShop, StoreID: uintPtr(6)}
	_, err = svc.Transition(ctx, 1, otherShop, StatusInDelivery)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	// A multi-store order has no top-level store; shops cannot drive it.
	orders.orders[1].StoreID = nil
	_, err = svc.Transition(ctx, 1, shopActor, StatusInDelivery)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	svc, orders, _ := fixture()
	ctx := context.Background()

	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		orders.orders[1].Status = terminal
		for _, target := range []Status{StatusPending, StatusConfirmed, StatusInDelivery, StatusCancelled, StatusDelivered} {
			if target == terminal {
				continue
			}
			_, err := svc.Transition(ctx, 1, adminActor, target)
			assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition),
				"%s -> %s should be an invalid transition", terminal, target)
		}
	}
}

func TestTransition_UnknownRoleAndStatus(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Transition(ctx, 1, user.Actor{UserID: 50, Role: "courier"}, StatusConfirmed)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	_, err = svc.Transition(ctx, 1, adminActor, Status("SHIPPED"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Transition(ctx, 99, adminActor, StatusConfirmed)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetOrder_RoleScoping(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, buyerActor, 1)
	assert.NoError(t, err)

	_, err = svc.GetOrder(ctx, user.Actor{UserID: 99, Role: user.RoleBuyer}, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	_, err = svc.GetOrder(ctx, shopActor, 1)
	assert.NoError(t, err)

	_, err = svc.GetOrder(ctx, adminActor, 1)
	assert.NoError(t, err)
}

func TestListOrders_RoleScoping(t *testing.T) {
	svc, orders, _ := fixture()
	ctx := context.Background()
	orders.orders[2] = &Order{ID: 2, BuyerID: 99, StoreID: uintPtr(6), Status: StatusPending,
		GrossTotal: dec("100"), DiscountTotal: dec("0"), DeliveryFee: dec("0"), NetTotal: dec("100")}

	resp, err := svc.ListOrders(ctx, buyerActor, &OrderListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, uint(10), resp.Orders[0].BuyerID)

	resp, err = svc.ListOrders(ctx, shopActor, &OrderListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)

	resp, err = svc.ListOrders(ctx, adminActor, &OrderListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
}

func TestUpdateOrder_AdminOnlyAndNetRecomputed(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.UpdateOrder(ctx, buyerActor, 1, &UpdateOrderRequest{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	gross, discount, fee := "5000", "500", "250"
	o, err := svc.UpdateOrder(ctx, adminActor, 1, &UpdateOrderRequest{
		GrossTotal:    &gross,
		DiscountTotal: &discount,
		DeliveryFee:   &fee,
	})
	require.NoError(t, err)
	assert.True(t, dec("4750").Equal(o.NetTotal))
}

func TestDeleteOrder_AdminOnly(t *testing.T) {
	svc, orders, _ := fixture()
	ctx := context.Background()

	err := svc.DeleteOrder(ctx, buyerActor, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	require.NoError(t, svc.DeleteOrder(ctx, adminActor, 1))
	assert.Empty(t, orders.orders)
}

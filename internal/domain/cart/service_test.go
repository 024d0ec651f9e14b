package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
)

type mockCartStore struct {
	cart *Cart
	err  error
}

func (m *mockCartStore) GetByBuyer(_ context.Context, buyerID uint) (*Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil || m.cart.BuyerID != buyerID {
		return nil, nil
	}
	return m.cart, nil
}

func (m *mockCartStore) Save(_ context.Context, c *Cart) error {
	if m.err != nil {
		return m.err
	}
	if c.ID == 0 {
		c.ID = 1
	}
	m.cart = c
	return nil
}

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

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(products ...*product.Product) (*Service, *mockCartStore, *mockProducts) {
	carts := &mockCartStore{}
	catalog := &mockProducts{products: map[uint]*product.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	return NewServiceWith(carts, catalog), carts, catalog
}

func TestAddItem_CreatesCartWithSnapshot(t *testing.T) {
	svc, _, _ := newTestService(&product.Product{
		ID: 7, StoreID: 2, Name: "Lamp", UnitPrice: dec("1000"), Kind: product.KindPhysicalGood, Stock: 10,
	})

	c, err := svc.AddItem(context.Background(), 1, &AddToCartRequest{ProductID: 7, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(7), c.Items[0].ProductID)
	assert.Equal(t, "Lamp", c.Items[0].ProductName)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, dec("1000").Equal(c.Items[0].UnitPrice))
	assert.True(t, dec("3000").Equal(c.Total))
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	prod := &product.Product{ID: 7, Name: "Lamp", UnitPrice: dec("1000"), Kind: product.KindPhysicalGood, Stock: 10}
	svc, _, catalog := newTestService(prod)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	// Catalog price changes between the two adds.
	catalog.products[7] = &product.Product{ID: 7, Name: "Lamp", UnitPrice: dec("1500"), Kind: product.KindPhysicalGood, Stock: 10}

	c, err := svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 7, Quantity: 3})
	require.NoError(t, err)

	// One line with quantity 5, not two lines.
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	// The original snapshot price is kept, not refreshed.
	assert.True(t, dec("1000").Equal(c.Items[0].UnitPrice))
	assert.True(t, dec("5000").Equal(c.Total))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc, carts, _ := newTestService()

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), 1, &AddToCartRequest{ProductID: 7, Quantity: qty})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	}
	assert.Nil(t, carts.cart)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddItem(context.Background(), 1, &AddToCartRequest{ProductID: 99, Quantity: 1})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateItemQuantity(t *testing.T) {
	prod := &product.Product{ID: 7, Name: "Lamp", UnitPrice: dec("250"), Kind: product.KindPhysicalGood, Stock: 10}
	svc, _, _ := newTestService(prod)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	// Absolute set, not an increment.
	c, err := svc.UpdateItemQuantity(ctx, 1, 7, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Items[0].Quantity)
	assert.True(t, dec("1500").Equal(c.Total))

	_, err = svc.UpdateItemQuantity(ctx, 1, 7, 0)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UpdateItemQuantity(ctx, 1, 99, 2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateItemQuantity_NoCart(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateItemQuantity(context.Background(), 1, 7, 2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRemoveItem(t *testing.T) {
	svc, _, _ := newTestService(
		&product.Product{ID: 7, Name: "Lamp", UnitPrice: dec("250"), Kind: product.KindPhysicalGood, Stock: 10},
		&product.Product{ID: 8, Name: "Mug", UnitPrice: dec("100"), Kind: product.KindPhysicalGood, Stock: 10},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 8, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(8), c.Items[0].ProductID)
	assert.True(t, dec("200").Equal(c.Total))

	// Removing a line that is not there is an error, not a no-op.
	_, err = svc.RemoveItem(ctx, 1, 7)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestClear(t *testing.T) {
	svc, carts, _ := newTestService(
		&product.Product{ID: 7, Name: "Lamp", UnitPrice: dec("250"), Kind: product.KindPhysicalGood, Stock: 10},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &AddToCartRequest{ProductID: 7, Quantity: 4})
	require.NoError(t, err)

	c, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
	// Cart row survives clearing.
	assert.NotNil(t, carts.cart)
	assert.NotZero(t, carts.cart.ID)
}

func TestGetCart_EmptyWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.GetCart(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), c.BuyerID)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestTotalRecomputationIsIdempotent(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{ProductID: 1, UnitPrice: dec("9.99"), Quantity: 3},
		{ProductID: 2, UnitPrice: dec("100"), Quantity: 2},
	}}

	c.RecomputeTotal()
	first := c.Total
	c.RecomputeTotal()
	assert.True(t, first.Equal(c.Total))
	assert.True(t, dec("229.97").Equal(c.Total))
}

package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
)

type mockProductStore struct {
	products map[uint]*Product
	nextID   uint
}

func newMockProductStore(products ...*Product) *mockProductStore {
	m := &mockProductStore{products: map[uint]*Product{}, nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockProductStore) GetByID(_ context.Context, id uint) (*Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, apperrors.NotFound("product %d not found", id)
	}
	return p, nil
}

func (m *mockProductStore) List(_ context.Context, storeID *uint) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if storeID != nil && p.StoreID != *storeID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductStore) Save(_ context.Context, p *Product) error {
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	m.products[p.ID] = p
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

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	shopActor := user.Actor{UserID: 20, Role: user.RoleShop, StoreID: uintPtr(5)}
	adminActor := user.Actor{UserID: 1, Role: user.RoleAdmin}

	req := func() *CreateProductRequest {
		return &CreateProductRequest{
			Name:        "Lamp",
			UnitPrice:   "1000",
			Kind:        KindPhysicalGood,
			Stock:       10,
			Deliverable: true,
		}
	}

	t.Run("shop creates in its own store", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		p, err := svc.CreateProduct(ctx, shopActor, req())
		require.NoError(t, err)
		assert.Equal(t, uint(5), p.StoreID)
		assert.True(t, p.IsActive)
		assert.True(t, p.UnitPrice.Equal(dec("1000")))
	})

	t.Run("admin creates with an explicit store", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		r := req()
		r.StoreID = uintPtr(7)
		p, err := svc.CreateProduct(ctx, adminActor, r)
		require.NoError(t, err)
		assert.Equal(t, uint(7), p.StoreID)
	})

	t.Run("admin without a store id is rejected", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		_, err := svc.CreateProduct(ctx, adminActor, req())
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("buyer cannot create products", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		_, err := svc.CreateProduct(ctx, user.Actor{UserID: 10, Role: user.RoleBuyer}, req())
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("service kind drops stock and deliverable", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		r := req()
		r.Kind = KindService
		p, err := svc.CreateProduct(ctx, shopActor, r)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Stock)
		assert.False(t, p.Deliverable)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore())

		r := req()
		r.UnitPrice = "-5"
		_, err := svc.CreateProduct(ctx, shopActor, r)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	shopActor := user.Actor{UserID: 20, Role: user.RoleShop, StoreID: uintPtr(5)}

	existing := func() *Product {
		return &Product{
			ID: 1, StoreID: 5, Name: "Lamp", UnitPrice: dec("1000"),
			Kind: KindPhysicalGood, Stock: 10, IsActive: true,
		}
	}

	t.Run("owner updates the product", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore(existing()))

		p, err := svc.UpdateProduct(ctx, shopActor, 1, &CreateProductRequest{
			Name: "Desk lamp", UnitPrice: "1200", Kind: KindPhysicalGood, Stock: 8,
		})
		require.NoError(t, err)
		assert.Equal(t, "Desk lamp", p.Name)
		assert.True(t, p.UnitPrice.Equal(dec("1200")))
	})

	t.Run("foreign shop is rejected", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore(existing()))

		other := user.Actor{UserID: 30, Role: user.RoleShop, StoreID: uintPtr(6)}
		_, err := svc.UpdateProduct(ctx, other, 1, &CreateProductRequest{
			Name: "Lamp", UnitPrice: "1000", Kind: KindPhysicalGood,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("admin edits any product", func(t *testing.T) {
		svc := NewServiceWith(newMockProductStore(existing()))

		p, err := svc.UpdateProduct(ctx, user.Actor{UserID: 1, Role: user.RoleAdmin}, 1, &CreateProductRequest{
			Name: "Lamp", UnitPrice: "900", Kind: KindPhysicalGood, Stock: 10,
		})
		require.NoError(t, err)
		assert.True(t, p.UnitPrice.Equal(dec("900")))
	})
}

// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// Cart holds a buyer's in-progress selections. There is exactly one
// cart per buyer, created lazily on first add and emptied, not
// deleted, on checkout.
type Cart struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BuyerID   uint            `gorm:"uniqueIndex;not null" json:"buyer_id"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CartItem is one line in the cart. UnitPrice and ProductName are
// snapshots taken at add time and never re-derived from the catalog.
type CartItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CartID      uint            `gorm:"not null;index" json:"cart_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`

	// Loaded for display and checkout, never persisted from here.
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the index of the line for productID, or -1.
// At most one line per product exists.
func (c *Cart) FindItem(productID uint) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RecomputeTotal rebuilds the derived total from the lines. It runs on
// every mutation; the stored value is never independently authoritative.
func (c *Cart) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.Total = total
}

// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"gorm.io/gorm"
)

// Kind distinguishes goods that carry stock from services that do not.
type Kind string

const (
	KindPhysicalGood Kind = "PHYSICAL_GOOD"
	KindService      Kind = "SERVICE"
)

// Valid reports whether the kind is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindPhysicalGood || k == KindService
}

// Product represents a catalog entry. Stock is meaningful only for
// PHYSICAL_GOOD and never goes negative.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StoreID     uint            `gorm:"not null;index" json:"store_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Kind        Kind            `gorm:"not null;size:20" json:"kind"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Deliverable bool            `gorm:"default:false" json:"deliverable"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Store *store.Store `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"store,omitempty"`
}

// TableName overrides
func (Product) TableName() string { return "products" }

// TracksStock reports whether stock checks apply to this product.
func (p *Product) TracksStock() bool {
	return p.Kind == KindPhysicalGood
}

// HasStock reports whether the product can satisfy the requested quantity.
// Services always can.
func (p *Product) HasStock(quantity int) bool {
	if !p.TracksStock() {
		return true
	}
	return p.Stock >= quantity
}

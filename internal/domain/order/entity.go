// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInDelivery Status = "IN_DELIVERY"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// statusTransitions is the allowed-next-state set per status.
// DELIVERED and CANCELLED are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInDelivery, StatusCancelled, StatusDelivered},
	StatusInDelivery: {StatusDelivered},
}

// Valid reports whether the status is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether target is a legal next status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Order is created from validated cart content at checkout. Its lines
// are frozen snapshots; after creation only the status moves, through
// the state machine, plus administrative full-record edits.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	BuyerID     uint   `gorm:"not null;index" json:"buyer_id"`
	// StoreID is set when every line belongs to the same store and left
	// unset when lines span stores; per-line store references remain.
	StoreID *uint  `gorm:"index" json:"store_id,omitempty"`
	Status  Status `gorm:"not null;size:20;default:'PENDING'" json:"status"`

	// Monetary aggregates, fixed at creation: net = gross - discount + fee.
	GrossTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_total"`
	DiscountTotal decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount_total"`
	DeliveryFee   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"delivery_fee"`
	NetTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_total"`

	WithDelivery bool `gorm:"default:false" json:"with_delivery"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Buyer *user.User   `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Store *store.Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// OrderItem is a frozen snapshot of one purchased line, taken at order
// creation and never re-derived from the live product.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"not null;size:255" json:"product_name"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	StoreID     uint            `gorm:"not null;index" json:"store_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber generates a unique human-facing order number.
func GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

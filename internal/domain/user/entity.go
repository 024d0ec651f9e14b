// internal/domain/user/entity.go
package user

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies what a user may do. The marketplace has exactly
// three roles; permission checks branch on this tag, never on types.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleShop  Role = "shop"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleShop || r == RoleAdmin
}

// User represents an account. Shop accounts own exactly one store.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	Role         Role           `gorm:"not null;size:20;default:'buyer'" json:"role"`
	StoreID      *uint          `gorm:"index" json:"store_id,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (User) TableName() string { return "users" }

// internal/domain/user/actor.go
package user

// Actor is the trusted per-request identity context: who is calling,
// with which role, and which store they own if any. It is built from
// verified token claims; domain services do not re-check credentials.
type Actor struct {
	UserID  uint
	Role    Role
	StoreID *uint
}

// IsAdmin reports whether the actor has unrestricted rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// OwnsStore reports whether the actor is a shop owning the given store.
func (a Actor) OwnsStore(storeID uint) bool {
	return a.Role == RoleShop && a.StoreID != nil && *a.StoreID == storeID
}

package domain

import "github.com/google/uuid"

// Role classifies an authenticated caller. Anonymous callers have no identity
// at all and never reach the endpoints that require one.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Identity is the resolved caller of a request: the account ID from the
// session token plus its role. It is produced by the auth middleware and
// consumed by services for ownership checks.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller may act on resources it does not own.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

package entity

import "time"

// Role is the closed set of user roles. It is a business classification, not
// a capability list; capabilities are derived in the policy package.
type Role string

const (
	RoleRequester Role = "requester"
	RoleSublead   Role = "sublead"
	RoleExecutive Role = "executive"
	RoleBusiness  Role = "business"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleSublead, RoleExecutive, RoleBusiness:
		return true
	}
	return false
}

// User is an account registered against the approved-email allowlist.
// Users are never hard-deleted; IsActive gates login.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, never plain in the domain after persisting
	FullName     string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	LoginCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity attached to a request, rebuilt from
// JWT claims without a DB round trip.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

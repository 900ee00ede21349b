package domain

import (
	"errors"
	"time"
)

// Role is the access level assigned to a user in the directory.
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePrivileged Role = "privileged"
	RoleNonAdmin   Role = "nonadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePrivileged, RoleNonAdmin:
		return true
	}
	return false
}

// Authentication and authorization errors. The three credential errors all map
// to 401; the split only tells the client whether the header was missing,
// malformed, or carried a bad token. The concrete reason a token was rejected
// never reaches the client.
var (
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrMalformedCredentials = errors.New("malformed credentials")
	ErrInvalidCredentials   = errors.New("invalid or expired credentials")
	ErrForbidden            = errors.New("access forbidden")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrRateLimited          = errors.New("token issuance rate limit exceeded")
)

// User models an account in the user directory. The directory is the sole
// source of truth for roles: a token carries the role it was issued with, but
// every authenticated request re-resolves the subject here and authorization
// runs against the stored role.
//
// PasswordHash is provisioned by the seeder and never consulted during
// authentication.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

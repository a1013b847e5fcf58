package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role names carried by users and JWT claims.
const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// User represents a registered account. Email doubles as the login identity.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	BirthDate    time.Time `json:"birth_date" db:"birth_date"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal returns the access-control view of the user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Roles: u.Roles}
}

// Principal is the authenticated actor behind a request: an identity plus its
// role set. Every service operation that needs the caller takes a Principal
// explicitly; nothing reads ambient auth state.
type Principal struct {
	UserID uuid.UUID
	Roles  []string
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

package service

import (
	"fmt"

	"dscommerce/internal/domain"
)

// AccessGuard decides whether a principal may act on an order. It is checked
// on every read-by-id; creation never consults it because a new order is
// always bound to the requesting principal.
type AccessGuard struct{}

// NewAccessGuard creates a new AccessGuard
func NewAccessGuard() *AccessGuard {
	return &AccessGuard{}
}

// CanAccess reports whether the principal may view or act on the order.
// Admins may access any order; clients only their own.
func (g *AccessGuard) CanAccess(principal domain.Principal, order *domain.Order) bool {
	if principal.HasRole(domain.RoleAdmin) {
		return true
	}
	if principal.HasRole(domain.RoleClient) && order.ClientID == principal.UserID {
		return true
	}
	return false
}

// Authorize fails with ErrForbidden when CanAccess is false.
func (g *AccessGuard) Authorize(principal domain.Principal, order *domain.Order) error {
	if !g.CanAccess(principal, order) {
		return fmt.Errorf("order %s: %w", order.ID, domain.ErrForbidden)
	}
	return nil
}

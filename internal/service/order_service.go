package service

import (
	"context"
	"fmt"
	"time"

	"dscommerce/internal/domain"
	"dscommerce/internal/repository"

	"github.com/google/uuid"
)

// OrderService manages the order lifecycle: creation, guarded reads, and
// externally triggered status transitions. Every operation takes the caller's
// principal explicitly where authorization matters.
type OrderService interface {
	Create(ctx context.Context, principal domain.Principal, items []OrderItemRequest) (*domain.Order, error)
	FindByID(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Order, error)
	ListForPrincipal(ctx context.Context, principal domain.Principal) ([]*domain.Order, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	MarkShipped(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	pricing   *PricingEngine
	guard     *AccessGuard
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	pricing *PricingEngine,
	guard *AccessGuard,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		pricing:   pricing,
		guard:     guard,
	}
}

// Create validates the request, prices the items against the catalog, and
// persists the new order bound to the requesting principal. Any client id in
// the request body is irrelevant: ownership always comes from the principal.
func (s *orderService) Create(ctx context.Context, principal domain.Principal, items []OrderItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item: %w", domain.ErrUnprocessable)
	}

	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, fmt.Errorf("unknown principal: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	// Ordering is a client action. An admin without the client role cannot
	// place orders; mixed-role users act as clients here.
	if !user.HasRole(domain.RoleClient) {
		return nil, fmt.Errorf("ordering requires the client role: %w", domain.ErrForbidden)
	}

	order := &domain.Order{
		ID:       uuid.New(),
		Moment:   time.Now(),
		Status:   domain.StatusWaitingPayment,
		ClientID: user.ID,
	}

	if err := s.pricing.PopulateItems(ctx, order, items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return order, nil
}

// FindByID fetches an order and authorizes the principal against it
func (s *orderService) FindByID(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(principal, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListForPrincipal returns the principal's own orders; admins see all orders
func (s *orderService) ListForPrincipal(ctx context.Context, principal domain.Principal) ([]*domain.Order, error) {
	if principal.HasRole(domain.RoleAdmin) {
		orders, err := s.orderRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		return orders, nil
	}

	orders, err := s.orderRepo.ListByClient(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ConfirmPayment applies the payment-confirmation event: it attaches a
// payment record and moves the order to PAID. Triggered by the payment event
// path, never directly by a user request.
func (s *orderService) ConfirmPayment(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.StatusWaitingPayment {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.Status, domain.ErrInvalidTransition)
	}

	order.Payment = &domain.Payment{
		ID:      uuid.New(),
		Moment:  time.Now(),
		OrderID: order.ID,
	}
	order.Status = domain.StatusPaid

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist payment confirmation: %w", err)
	}

	return order, nil
}

// MarkShipped moves a paid order to SHIPPED
func (s *orderService) MarkShipped(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, id, domain.StatusShipped)
}

// MarkDelivered moves a shipped order to DELIVERED
func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, id, domain.StatusDelivered)
}

// Cancel moves an order to CANCELED while it has not shipped
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, id, domain.StatusCanceled)
}

func (s *orderService) transition(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("order %s is %s, cannot become %s: %w", id, order.Status, next, domain.ErrInvalidTransition)
	}

	order.Status = next

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	return order, nil
}

func (s *orderService) fetch(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dscommerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderEmpty    = errors.New("order has no items")
)

// OrderRepository defines the interface for order aggregate data access.
// An order and its items (and payment, once attached) are read and written
// as one unit; items keep their insertion order.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order and all of its items in one transaction.
// An order without items is rejected before anything is written.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return ErrOrderEmpty
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, moment, status, client_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.ExecContext(ctx, query, order.ID, order.Moment, order.Status, order.ClientID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order creation: %w", err)
	}

	return nil
}

// Update persists a status change and, when present, the payment record in
// one transaction. Items are immutable after creation and are not touched.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2
		WHERE id = $1
	`, order.ID, order.Status)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	if order.Payment != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (id, moment, order_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id) DO NOTHING
		`, order.Payment.ID, order.Payment.Moment, order.Payment.OrderID)
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order update: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its items and payment
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, moment, status, client_id
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Moment,
		&order.Status,
		&order.ClientID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadDetails(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByClient retrieves all orders owned by a client, newest first
func (r *orderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, moment, status, client_id
		FROM orders
		WHERE client_id = $1
		ORDER BY moment DESC
	`

	return r.queryOrders(ctx, query, clientID)
}

// List retrieves all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, moment, status, client_id
		FROM orders
		ORDER BY moment DESC
	`

	return r.queryOrders(ctx, query)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Moment,
			&order.Status,
			&order.ClientID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadDetails(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadDetails(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.UnitPrice,
			&item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	order.Items = items

	payment := &domain.Payment{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, moment, order_id
		FROM payments
		WHERE order_id = $1
	`, order.ID).Scan(&payment.ID, &payment.Moment, &payment.OrderID)

	if err != nil {
		if err == sql.ErrNoRows {
			order.Payment = nil
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	order.Payment = payment
	return nil
}

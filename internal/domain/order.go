package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusWaitingPayment OrderStatus = "WAITING_PAYMENT"
	StatusPaid           OrderStatus = "PAID"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCanceled       OrderStatus = "CANCELED"
)

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Cancellation is only possible before shipment.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case StatusPaid:
		return s == StatusWaitingPayment
	case StatusShipped:
		return s == StatusPaid
	case StatusDelivered:
		return s == StatusShipped
	case StatusCanceled:
		return s == StatusWaitingPayment || s == StatusPaid
	default:
		return false
	}
}

// OrderItem is one line of an order. UnitPrice is the product price captured
// at order-creation time; later catalog price changes never affect it.
type OrderItem struct {
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"name" db:"product_name"`
	UnitPrice   float64   `json:"price" db:"unit_price"`
	Quantity    int       `json:"quantity" db:"quantity"`
}

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Payment records the settlement of an order. It is created only when a
// payment-confirmation event arrives.
type Payment struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Moment  time.Time `json:"moment" db:"moment"`
	OrderID uuid.UUID `json:"order_id" db:"order_id"`
}

// Order is the aggregate root: it exclusively owns its items, which keep their
// insertion order and cannot outlive it. A persisted order always has at
// least one item.
type Order struct {
	ID       uuid.UUID   `json:"id" db:"id"`
	Moment   time.Time   `json:"moment" db:"moment"`
	Status   OrderStatus `json:"status" db:"status"`
	ClientID uuid.UUID   `json:"client_id" db:"client_id"`
	Items    []OrderItem `json:"items"`
	Payment  *Payment    `json:"payment,omitempty"`
}

// Total returns the sum of all item subtotals. It is derived on demand and
// never stored.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

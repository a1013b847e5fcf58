package transport

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"dscommerce/internal/domain"
	"dscommerce/internal/middleware"
	"dscommerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemPayload is one requested line of an order creation request
type OrderItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest represents the order creation payload. Any client id a
// caller might send is deliberately absent: ownership comes from the token.
type CreateOrderRequest struct {
	Items []OrderItemPayload `json:"items" validate:"required,dive"`
}

// PaymentEventRequest represents an external payment-confirmation event
type PaymentEventRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

// OrderItemResponse represents one order line in responses
type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// PaymentResponse represents an order's payment in responses
type PaymentResponse struct {
	ID     string    `json:"id"`
	Moment time.Time `json:"moment"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID       string              `json:"id"`
	Moment   time.Time           `json:"moment"`
	Status   string              `json:"status"`
	ClientID string              `json:"client_id"`
	Items    []OrderItemResponse `json:"items"`
	Payment  *PaymentResponse    `json:"payment,omitempty"`
	Total    float64             `json:"total"`
}

func orderFromDomain(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.ProductName,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}

	response := OrderResponse{
		ID:       order.ID.String(),
		Moment:   order.Moment,
		Status:   string(order.Status),
		ClientID: order.ClientID.String(),
		Items:    items,
		Total:    order.Total(),
	}

	if order.Payment != nil {
		response.Payment = &PaymentResponse{
			ID:     order.Payment.ID.String(),
			Moment: order.Payment.Moment,
		}
	}

	return response
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService        service.OrderService
	paymentWebhookToken string
	logger              *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, paymentWebhookToken string, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		paymentWebhookToken: paymentWebhookToken,
		logger:              logger,
	}
}

// RegisterRoutes registers all order routes. Shipment, delivery, and
// cancellation are operator actions behind the admin role; payment
// confirmation comes from the payment provider, not a user.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/{id}/ship", h.Ship)
			r.Post("/{id}/deliver", h.Deliver)
			r.Post("/{id}/cancel", h.Cancel)
		})
	})

	// Webhook for the external payment provider, guarded by a shared secret
	r.Post("/api/payments/events", h.PaymentEvent)
}

// Create handles order creation for the authenticated principal
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		items = append(items, service.OrderItemRequest{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.Create(r.Context(), principal, items)
	if err != nil {
		h.logger.Debug("Order creation rejected", zap.Error(err))
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", order.ClientID.String()),
		zap.Float64("total", order.Total()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, orderFromDomain(order))
}

// GetByID handles guarded order lookups
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.FindByID(r.Context(), principal, id)
	if err != nil {
		h.logger.Debug("Order lookup rejected",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orderFromDomain(order))
}

// List handles listing the principal's orders (all orders for admins)
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.ListForPrincipal(r.Context(), principal)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, orderFromDomain(order))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// PaymentEvent handles payment-confirmation webhooks from the payment provider
func (h *OrderHandler) PaymentEvent(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Payment-Token")
	if h.paymentWebhookToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.paymentWebhookToken)) != 1 {
		h.logger.Warn("Payment webhook rejected: bad token")
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid webhook token")
		return
	}

	var req PaymentEventRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Payment event validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.ConfirmPayment(r.Context(), orderID)
	if err != nil {
		h.logger.Warn("Payment confirmation rejected",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("Payment confirmed", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, orderFromDomain(order))
}

// Ship handles the shipment transition
func (h *OrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orderService.MarkShipped)
}

// Deliver handles the delivery transition
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orderService.MarkDelivered)
}

// Cancel handles the cancellation transition
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orderService.Cancel)
}

func (h *OrderHandler) applyTransition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (*domain.Order, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := apply(r.Context(), id)
	if err != nil {
		h.logger.Warn("Status transition rejected",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, orderFromDomain(order))
}

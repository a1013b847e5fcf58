package events

import (
	"context"
	"encoding/json"
	"errors"

	"dscommerce/internal/domain"
	"dscommerce/internal/service"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentEvent is the payload published by the payment provider when a
// payment settles.
type PaymentEvent struct {
	OrderID string `json:"order_id"`
}

// PaymentConsumer reads payment-confirmation events from Kafka and applies
// them to orders. It is optional: without configured brokers the service
// falls back to the HTTP webhook alone.
type PaymentConsumer struct {
	reader       *kafka.Reader
	orderService service.OrderService
	logger       *zap.Logger
}

// NewPaymentConsumer creates a consumer for the given brokers and topic.
// Returns nil when no brokers are configured.
func NewPaymentConsumer(brokers []string, topic, groupID string, orderService service.OrderService, logger *zap.Logger) *PaymentConsumer {
	if len(brokers) == 0 {
		return nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})

	return &PaymentConsumer{
		reader:       reader,
		orderService: orderService,
		logger:       logger,
	}
}

// Run consumes events until the context is canceled. Malformed events and
// already-confirmed orders are logged and skipped so the partition keeps
// moving; other failures are logged and the event is effectively dropped,
// matching the at-most-once needs of a status flip.
func (c *PaymentConsumer) Run(ctx context.Context) {
	c.logger.Info("Payment consumer started", zap.String("topic", c.reader.Config().Topic))

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to read payment event", zap.Error(err))
			continue
		}

		c.handle(ctx, message.Value)
	}
}

// Close releases the underlying reader
func (c *PaymentConsumer) Close() error {
	return c.reader.Close()
}

func (c *PaymentConsumer) handle(ctx context.Context, payload []byte) {
	var event PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logger.Warn("Dropping malformed payment event", zap.Error(err))
		return
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		c.logger.Warn("Dropping payment event with bad order id",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}

	_, err = c.orderService.ConfirmPayment(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			// Duplicate delivery of an already-confirmed payment
			c.logger.Warn("Payment event for non-pending order",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		case errors.Is(err, domain.ErrNotFound):
			c.logger.Warn("Payment event for unknown order",
				zap.String("order_id", orderID.String()),
			)
		default:
			c.logger.Error("Failed to apply payment event",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
		return
	}

	c.logger.Info("Payment confirmed from event", zap.String("order_id", orderID.String()))
}

// Package event publishes storefront domain events to Kafka. Publishing is
// best effort; a broker outage never blocks a customer flow.
package event

import (
	"context"
	"log/slog"

	"github.com/dukahub/storefront/internal/domain"
	"github.com/dukahub/storefront/pkg/kafka"
	"github.com/dukahub/storefront/pkg/logger"
)

const (
	TopicCheckoutSubmitted = "storefront.checkout.submitted"
	TopicCheckoutFailed    = "storefront.checkout.failed"
	TopicCartUpdated       = "storefront.cart.updated"

	source = "storefront"
)

// producer is satisfied by kafka.Producer.
type producer interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Publisher emits storefront events.
type Publisher struct {
	producer producer
	logger   *slog.Logger
}

// NewPublisher creates an event publisher.
func NewPublisher(p producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, logger: logger}
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

// CheckoutSubmittedData is the payload of a successful order submission.
type CheckoutSubmittedData struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id,omitempty"`
	Mode      string `json:"mode"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
	Courier   string `json:"courier"`
}

// CheckoutSubmitted reports an order accepted by the backend.
func (p *Publisher) CheckoutSubmitted(ctx context.Context, data CheckoutSubmittedData) {
	p.publish(ctx, TopicCheckoutSubmitted, "checkout.submitted", data.SessionID, "checkout", data)
}

// CheckoutFailedData is the payload of a rejected order submission.
type CheckoutFailedData struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	Reason    string `json:"reason"`
}

// CheckoutFailed reports an order the backend rejected.
func (p *Publisher) CheckoutFailed(ctx context.Context, data CheckoutFailedData) {
	p.publish(ctx, TopicCheckoutFailed, "checkout.failed", data.SessionID, "checkout", data)
}

// CartUpdatedData is the payload of a cart mutation.
type CartUpdatedData struct {
	SessionID  string `json:"session_id"`
	Action     string `json:"action"`
	ProductID  string `json:"product_id,omitempty"`
	TotalPrice int64  `json:"total_price"`
	TotalCount int    `json:"total_count"`
}

// CartUpdated reports a cart mutation with the new totals.
func (p *Publisher) CartUpdated(ctx context.Context, sessionID, action, productID string, cart *domain.Cart) {
	p.publish(ctx, TopicCartUpdated, "cart.updated", sessionID, "cart", CartUpdatedData{
		SessionID:  sessionID,
		Action:     action,
		ProductID:  productID,
		TotalPrice: cart.TotalPrice(),
		TotalCount: cart.TotalCount(),
	})
}

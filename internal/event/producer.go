package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iliaxp/LiberaryApplication/internal/domain"
	pkgkafka "github.com/iliaxp/LiberaryApplication/pkg/kafka"
	"github.com/iliaxp/LiberaryApplication/pkg/logger"
)

// Kafka topics for storefront events.
const (
	TopicCartUpdated         = "storefront.cart.updated"
	TopicCartCleared         = "storefront.cart.cleared"
	TopicPaymentCompleted    = "storefront.payment.completed"
	TopicOnboardingCompleted = "storefront.onboarding.completed"
)

// Aggregate types.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeDevice  = "device"
	AggregateTypePayment = "payment"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	DeviceID    string         `json:"device_id"`
	Lines       []CartLineData `json:"lines"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

// CartLineData is one line within cart events.
type CartLineData struct {
	BookID   string `json:"book_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	DeviceID string `json:"device_id"`
}

// PaymentCompletedData is the payload for a payment.completed event.
type PaymentCompletedData struct {
	DeviceID  string         `json:"device_id"`
	Amount    int64          `json:"amount"`
	ItemCount int            `json:"item_count"`
	Lines     []CartLineData `json:"lines"`
}

// OnboardingCompletedData is the payload for an onboarding.completed event.
type OnboardingCompletedData struct {
	DeviceID string `json:"device_id"`
}

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new storefront event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes the cart contents after a change.
func (p *Producer) PublishCartUpdated(ctx context.Context, deviceID string, cart domain.Cart) error {
	data := CartUpdatedData{
		DeviceID:    deviceID,
		Lines:       lineData(cart.Lines),
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalPrice(),
	}
	return p.publish(ctx, TopicCartUpdated, deviceID, AggregateTypeCart, data)
}

// PublishCartCleared publishes that the cart was emptied.
func (p *Producer) PublishCartCleared(ctx context.Context, deviceID string) error {
	return p.publish(ctx, TopicCartCleared, deviceID, AggregateTypeCart, CartClearedData{DeviceID: deviceID})
}

// PublishPaymentCompleted publishes the cart that was paid for.
func (p *Producer) PublishPaymentCompleted(ctx context.Context, deviceID string, paid domain.Cart) error {
	data := PaymentCompletedData{
		DeviceID:  deviceID,
		Amount:    paid.TotalPrice(),
		ItemCount: paid.ItemCount(),
		Lines:     lineData(paid.Lines),
	}
	return p.publish(ctx, TopicPaymentCompleted, deviceID, AggregateTypePayment, data)
}

// PublishOnboardingCompleted publishes that a device finished onboarding.
func (p *Producer) PublishOnboardingCompleted(ctx context.Context, deviceID string) error {
	return p.publish(ctx, TopicOnboardingCompleted, deviceID, AggregateTypeDevice, OnboardingCompletedData{DeviceID: deviceID})
}

func (p *Producer) publish(ctx context.Context, topic, deviceID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, pkgkafka.Aggregate{Type: aggregateType, ID: deviceID}, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published storefront event",
		slog.String("topic", topic),
		slog.String("device_id", deviceID),
	)
	return nil
}

func lineData(lines []domain.CartLine) []CartLineData {
	out := make([]CartLineData, len(lines))
	for i, l := range lines {
		out[i] = CartLineData{
			BookID:   l.Book.ID,
			Name:     l.Book.Name,
			Price:    l.Book.Price,
			Quantity: l.Quantity,
		}
	}
	return out
}

// NopPublisher drops every event. It is used when publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

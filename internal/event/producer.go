package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Topics for storefront domain events.
var (
	TopicCartUpdated       = pkgkafka.Topic("cart", "updated")
	TopicCartCleared       = pkgkafka.Topic("cart", "cleared")
	TopicCheckoutCompleted = pkgkafka.Topic("checkout", "completed")
	TopicCheckoutCancelled = pkgkafka.Topic("checkout", "cancelled")
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// Publisher publishes storefront domain events.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishCheckoutCompleted(ctx context.Context, session domain.CheckoutSession) error
	PublishCheckoutCancelled(ctx context.Context, session domain.CheckoutSession) error
}

// CartItemData is the item payload within cart and checkout events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CheckoutData is the payload for checkout.completed and checkout.cancelled.
type CheckoutData struct {
	CheckoutID string         `json:"checkout_id"`
	SessionID  string         `json:"session_id"`
	Step       string         `json:"step"`
	OrderRef   string         `json:"order_ref,omitempty"`
	Items      []CartItemData `json:"items"`
	Subtotal   int64          `json:"subtotal"`
	Shipping   int64          `json:"shipping"`
	Total      int64          `json:"total"`
}

func itemData(cart domain.Cart) []CartItemData {
	items := make([]CartItemData, len(cart))
	for i, item := range cart {
		items[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return items
}

func checkoutData(s domain.CheckoutSession) CheckoutData {
	return CheckoutData{
		CheckoutID: s.ID,
		SessionID:  s.SessionID,
		Step:       s.Step,
		OrderRef:   s.OrderRef,
		Items:      itemData(s.Items),
		Subtotal:   s.Totals.Subtotal,
		Shipping:   s.Totals.Shipping,
		Total:      s.Totals.Total,
	}
}

// Producer publishes storefront events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// publish wraps data in an envelope keyed by key and writes it to topic.
func (p *Producer) publish(ctx context.Context, topic, key string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, key, SourceStorefront, data)
	if err != nil {
		return err
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("key", key),
	)
	return nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart) error {
	return p.publish(ctx, TopicCartUpdated, sessionID, CartUpdatedData{
		SessionID: sessionID,
		Items:     itemData(cart),
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	})
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicCartCleared, sessionID, CartClearedData{SessionID: sessionID})
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, session domain.CheckoutSession) error {
	return p.publish(ctx, TopicCheckoutCompleted, session.ID, checkoutData(session))
}

// PublishCheckoutCancelled publishes a checkout.cancelled event.
func (p *Producer) PublishCheckoutCancelled(ctx context.Context, session domain.CheckoutSession) error {
	return p.publish(ctx, TopicCheckoutCancelled, session.ID, checkoutData(session))
}

// Noop discards every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, string, domain.Cart) error          { return nil }
func (Noop) PublishCartCleared(context.Context, string) error                       { return nil }
func (Noop) PublishCheckoutCompleted(context.Context, domain.CheckoutSession) error { return nil }
func (Noop) PublishCheckoutCancelled(context.Context, domain.CheckoutSession) error { return nil }

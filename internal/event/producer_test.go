package event

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = Noop{}
)

func sampleCart() domain.Cart {
	return domain.Cart{}.
		Add(domain.Product{ID: "1", Name: "King Coconut Water", Price: 1250}).
		Add(domain.Product{ID: "1", Name: "King Coconut Water", Price: 1250}).
		Add(domain.Product{ID: "3", Name: "Extra Virgin Coconut Oil", Price: 3200})
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", TopicCartUpdated)
	assert.Equal(t, "storefront.cart.cleared", TopicCartCleared)
	assert.Equal(t, "storefront.checkout.completed", TopicCheckoutCompleted)
	assert.Equal(t, "storefront.checkout.cancelled", TopicCheckoutCancelled)
}

func TestItemData(t *testing.T) {
	items := itemData(sampleCart())

	require.Len(t, items, 2)
	assert.Equal(t, CartItemData{ProductID: "1", Name: "King Coconut Water", Price: 1250, Quantity: 2}, items[0])
	assert.Equal(t, "3", items[1].ProductID)
}

func TestCheckoutData(t *testing.T) {
	s, err := domain.NewCheckoutSession("chk-1", "sess-1", sampleCart(), time.Now())
	require.NoError(t, err)
	s.OrderRef = "HNO-12345678"

	data := checkoutData(s.Snapshot())
	assert.Equal(t, "chk-1", data.CheckoutID)
	assert.Equal(t, "sess-1", data.SessionID)
	assert.Equal(t, domain.StepShipping, data.Step)
	assert.Equal(t, "HNO-12345678", data.OrderRef)
	assert.Equal(t, int64(5700), data.Subtotal)
	assert.Equal(t, int64(0), data.Shipping)
	assert.Equal(t, int64(5700), data.Total)
	assert.Len(t, data.Items, 2)
}

func TestProducer_PublishFailsWithoutBroker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"127.0.0.1:1"}), logger)
	t.Cleanup(func() { _ = kafkaProducer.Close() })
	p := NewProducer(kafkaProducer, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.PublishCartCleared(ctx, "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), TopicCartCleared)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var n Noop
	assert.NoError(t, n.PublishCartUpdated(ctx, "s", sampleCart()))
	assert.NoError(t, n.PublishCartCleared(ctx, "s"))
	assert.NoError(t, n.PublishCheckoutCompleted(ctx, domain.CheckoutSession{}))
	assert.NoError(t, n.PublishCheckoutCancelled(ctx, domain.CheckoutSession{}))
}

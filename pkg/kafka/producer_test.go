package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type cartPayload struct {
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
	Total     int64  `json:"total"`
}

func TestNewEvent_Fields(t *testing.T) {
	data := cartPayload{SessionID: "sess-1", ItemCount: 2, Total: 4000}
	e, err := NewEvent("storefront.cart.updated", "sess-1", "storefront", data)
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "storefront.cart.updated", e.Type)
	assert.Equal(t, "sess-1", e.Key)
	assert.Equal(t, "storefront", e.Source)
	assert.Equal(t, SchemaVersion, e.Version)
	assert.WithinDuration(t, time.Now().UTC(), e.OccurredAt, 2*time.Second)

	var got cartPayload
	require.NoError(t, e.DecodeData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("storefront.cart.updated", "sess-1", "storefront", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storefront.cart.updated")
}

func TestDecodeEvent(t *testing.T) {
	original, err := NewEvent("storefront.checkout.completed", "chk-1", "storefront", map[string]string{"order_ref": "HNO-1A2B3C4D"})
	require.NoError(t, err)
	original.CorrelationID = "corr-abc"

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	restored, err := DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
}

func TestDecodeEvent_Invalid(t *testing.T) {
	for _, raw := range []string{`{broken`, ``, `{}`, `{"id":"e-1"}`} {
		_, err := DecodeEvent([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestMessage_HeadersAndKey(t *testing.T) {
	e, err := NewEvent("storefront.cart.cleared", "sess-9", "storefront", nil)
	require.NoError(t, err)

	msg, err := message(context.Background(), "storefront.cart.cleared", e)
	require.NoError(t, err)

	assert.Equal(t, "storefront.cart.cleared", msg.Topic)
	assert.Equal(t, []byte("sess-9"), msg.Key)
	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "storefront.cart.cleared", carrier.Get(HeaderEventType))
	assert.Equal(t, "storefront", carrier.Get(HeaderSource))
	assert.Empty(t, carrier.Get(HeaderCorrelationID))

	decoded, err := DecodeEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, e.ID, decoded.ID)
}

func TestMessage_PropagatesCorrelationAndTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	e, err := NewEvent("storefront.checkout.completed", "chk-1", "storefront", nil)
	require.NoError(t, err)
	e.CorrelationID = "corr-1"

	msg, err := message(ctx, "storefront.checkout.completed", e)
	require.NoError(t, err)

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "corr-1", carrier.Get(HeaderCorrelationID))
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", carrier.Get("traceparent"))
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "storefront.checkout.cancelled", Topic("checkout", "cancelled"))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"kafka-1:9092", "kafka-2:9092"})
	assert.Len(t, cfg.Brokers, 2)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestNewProducer_NoConnectionUntilPublish(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers(t *testing.T) {
	for _, brokers := range [][]string{nil, {}} {
		err := PingBrokers(t.Context(), brokers)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no brokers configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err := PingBrokers(ctx, []string{"127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no broker reachable")
}

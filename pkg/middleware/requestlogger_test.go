package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func loggingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestLogger_StoresLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	var got *slog.Logger
	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.NotSame(t, slog.Default(), got)
}

func TestRequestLogger_IncludesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(loggingHandler())

	ctx := logger.WithCorrelationID(context.Background(), "corr-test-123")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	assert.Equal(t, "corr-test-123", logLine(t, &buf)["correlation_id"])
}

func TestRequestLogger_SessionFromContextWins(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(loggingHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "from-header")
	req = req.WithContext(WithSessionID(req.Context(), "from-context"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "from-context", logLine(t, &buf)["session_id"])
}

func TestRequestLogger_SessionFromHeader(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(loggingHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "sess-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "sess-1", logLine(t, &buf)["session_id"])
}

func TestRequestLogger_NoSessionOmitsField(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(loggingHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := logLine(t, &buf)["session_id"]
	assert.False(t, ok)
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(loggingHandler())

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	line := logLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
}

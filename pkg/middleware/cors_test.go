package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(h http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/cart", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	rec := corsRequest(h, http.MethodGet, "https://heritage.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_ProductionOrigins(t *testing.T) {
	h := CORS(CORSConfig{
		AllowedOrigins: []string{"https://heritage.ae", "https://www.heritage.ae"},
		Environment:    "production",
	})(okHandler())

	tests := []struct {
		origin string
		want   string
	}{
		{"https://heritage.ae", "https://heritage.ae"},
		{"https://www.heritage.ae", "https://www.heritage.ae"},
		{"https://evil.example", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			rec := corsRequest(h, http.MethodGet, tt.origin)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.want != "" {
				assert.Equal(t, "Origin", rec.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_WildcardInListAllowsAll(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"})(okHandler())
	rec := corsRequest(h, http.MethodGet, "https://anything.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := corsRequest(h, http.MethodOptions, "https://heritage.ae")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
}

func TestCORS_DefaultsAllowSessionHeader(t *testing.T) {
	h := CORS(CORSConfig{Environment: "production"})(okHandler())
	rec := corsRequest(h, http.MethodGet, "")

	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), SessionHeader)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ExposedHeadersAndCredentials(t *testing.T) {
	h := CORS(CORSConfig{
		AllowedOrigins:   []string{"https://heritage.ae"},
		ExposedHeaders:   []string{CorrelationHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})(okHandler())

	rec := corsRequest(h, http.MethodGet, "https://heritage.ae")
	assert.Equal(t, CorrelationHeader, rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// session_id, trace_id and span_id and stores it in the request context.
// Handlers retrieve it with logger.FromContext.
//
// Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Catalog routes run without the Session middleware, so fall back
			// to the raw header when the context has nothing.
			sessionID := SessionIDFromContext(ctx)
			if sessionID == "" {
				sessionID = r.Header.Get(SessionHeader)
			}
			if sessionID != "" {
				ctx = logger.WithSessionID(ctx, sessionID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

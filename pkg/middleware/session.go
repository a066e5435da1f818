package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/utafrali/storefront/pkg/httputil"
)

// SessionHeader carries the opaque storefront session identifier issued by the
// browser client. All cart and checkout state is scoped to it.
const SessionHeader = "X-Session-ID"

type contextKeyType string

const sessionIDKey contextKeyType = "session_id"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Session rejects requests without a well-formed X-Session-ID header and
// stores the session ID in the request context.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			writeSessionError(w, "session required")
			return
		}
		if !sessionIDPattern.MatchString(id) {
			writeSessionError(w, "malformed session id")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

// WithSessionID returns a copy of ctx carrying the storefront session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

func writeSessionError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: message},
	})
}

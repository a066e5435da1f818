package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// Request body limits.
const (
	maxJSONBody  = 1 << 20
	maxImageBody = 10 << 20
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// decode reads a size-limited JSON body into dst and validates it. Malformed
// bodies become INVALID_INPUT; failed rules stay *validator.ValidationError.
func decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if err := decodeBody(w, r, limit, dst); err != nil {
		return err
	}
	return validator.Validate(dst)
}

// decodeBody reads a size-limited JSON body into dst without validating it,
// for inputs the domain normalises before checking.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.InvalidInput("request body too large")
		}
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// StatusError is returned by CircuitBreakerClient for responses that count
// as breaker failures.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// MapStatus translates an upstream status code and message into an AppError
// suitable for the storefront's own clients.
func MapStatus(status int, serviceName, message string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		// The storefront's own credentials were rejected; not the caller's fault.
		return apperrors.ServiceUnavailable(serviceName + " is misconfigured")
	case status == http.StatusTooManyRequests, status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(serviceName + " is busy, try again later")
	case status >= 500:
		return apperrors.Upstream(serviceName, errors.New(message))
	default:
		return apperrors.Upstream(serviceName, fmt.Errorf("status %d: %s", status, message))
	}
}

// MapError translates a transport-level error from Client or
// CircuitBreakerClient into an AppError.
func MapError(err error, serviceName string) error {
	var statusErr *StatusError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCircuitOpen):
		return apperrors.ServiceUnavailable(serviceName + " is temporarily unavailable")
	case errors.As(err, &statusErr):
		return MapStatus(statusErr.StatusCode, serviceName, statusErr.Body)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return apperrors.Upstream(serviceName, err)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

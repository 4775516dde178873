package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Sentinel domain errors. Services return these (wrapped with context via
// %w) and the HTTP layer maps them to status codes with Status.
var (
	// ErrInvalidOperation rejects requests that are meaningless regardless
	// of state: self-swipes, self-messages, empty message bodies.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound marks a missing user, thread, or other referenced row.
	ErrNotFound = errors.New("not found")

	// ErrEntitlementRequired is the paywall outcome: the sender's free
	// message is spent and the entitlement oracle said no. It is an
	// expected business result, not a defect, so callers can branch on it.
	ErrEntitlementRequired = errors.New("entitlement required")
)

// InvalidOperation wraps ErrInvalidOperation with a reason.
func InvalidOperation(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, msg)
}

// NotFound wraps ErrNotFound with a reason.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Status converts service/repo/infra errors into an HTTP status code.
// Keeps handlers clean by centralizing the mapping.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrEntitlementRequired):
		return http.StatusPaymentRequired

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		// nginx convention for "client closed request"
		return 499

	default:
		return http.StatusInternalServerError
	}
}

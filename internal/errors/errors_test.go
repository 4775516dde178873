package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{InvalidOperation("cannot swipe on yourself"), http.StatusBadRequest},
		{NotFound("user"), http.StatusNotFound},
		{ErrEntitlementRequired, http.StatusPaymentRequired},
		{fmt.Errorf("send: %w", ErrEntitlementRequired), http.StatusPaymentRequired},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, 499},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Errorf("Status(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWrappedSentinelsAreIdentifiable(t *testing.T) {
	err := InvalidOperation("empty body")
	if !stderrors.Is(err, ErrInvalidOperation) {
		t.Error("wrapped invalid-operation error lost its sentinel")
	}
	if err.Error() != "invalid operation: empty body" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

package baselock

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ErrChainQuery) {
		t.Error("ErrChainQuery must be retryable")
	}
	if !IsRetryable(fmt.Errorf("%w: connection refused", ErrChainQuery)) {
		t.Error("wrapped ErrChainQuery must be retryable")
	}

	permanent := []error{
		ErrInvalidSignature,
		ErrLockNotFound,
		ErrContentNotFound,
		ErrReceiptNotFound,
		ErrTransactionReverted,
		ErrStore,
		ErrUnsupportedToken,
		ErrEventMismatch,
		ErrInvalidAmount,
		ErrInvalidConfig,
		errors.New("something else"),
		nil,
	}
	for _, err := range permanent {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}
}

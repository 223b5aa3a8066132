package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderReference(t *testing.T) {
	ref := NewOrderReference(42, time.Unix(1700000000, 0))
	assert.Equal(t, OrderReference("42-1700000000"), ref)
}

func TestTransactionStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   TransactionStatus
		terminal bool
	}{
		{TransactionStatusApproved, true},
		{TransactionStatusDeclined, true},
		{TransactionStatusExpired, true},
		{TransactionStatusInProcessing, false},
		{TransactionStatusPending, false},
		{TransactionStatusRefunded, false},
		{TransactionStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestErrOrderVanishedIsNotFound(t *testing.T) {
	err := fmt.Errorf("await: %w", ErrOrderVanished)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.True(t, errors.Is(err, ErrOrderVanished))
}

func TestGatewayError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create invoice: %w", &GatewayError{Op: "create_invoice", Reason: GatewayReasonTransport, Err: cause})

	reason, ok := IsGatewayError(err)
	assert.True(t, ok)
	assert.Equal(t, GatewayReasonTransport, reason)
	assert.ErrorIs(t, err, cause)

	_, ok = IsGatewayError(errors.New("other"))
	assert.False(t, ok)
}

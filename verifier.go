package baselock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Authenticator verifies that a message was signed by the private key
// controlling an address. Implementations must return false, never panic,
// for malformed signatures.
type Authenticator interface {
	Verify(address common.Address, message string, signature []byte) bool
}

// EventSource reads Paid event data from a chain. Implementations must
// return an empty slice, not an error, when no logs match, and must wrap
// transient RPC failures with ErrChainQuery.
type EventSource interface {
	// PaidEvents returns Paid logs emitted by the payment contract for the
	// given payer and lock-id commitment.
	PaidEvents(ctx context.Context, payer common.Address, linkID common.Hash) ([]LogEntry, error)

	// Receipt returns the execution status and logs of a mined transaction,
	// or ErrReceiptNotFound for an unknown or unmined hash.
	Receipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
}

// EventDecoder decodes a raw log entry into a typed PaymentEvent, rejecting
// logs that do not fully match the Paid event shape.
type EventDecoder interface {
	Decode(entry LogEntry) (*PaymentEvent, error)
}

// LockStore is the read side of the record store the gate consumes. Misses
// are reported as ErrLockNotFound and ErrContentNotFound.
type LockStore interface {
	GetLock(ctx context.Context, id string) (*Lock, error)
	GetSecret(ctx context.Context, linkID string) (*Secret, error)
}

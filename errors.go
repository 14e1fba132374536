package baselock

import "errors"

// Error taxonomy for verification calls. Only ErrChainQuery is transient;
// everything else is a definitive outcome for the inputs given.

var (
	// ErrInvalidSignature indicates the caller's wallet signature did not
	// verify against the expected message.
	ErrInvalidSignature = errors.New("baselock: invalid wallet signature")

	// ErrLockNotFound indicates no lock exists for the given id.
	ErrLockNotFound = errors.New("baselock: lock not found")

	// ErrContentNotFound indicates a lock exists but its secret is missing.
	ErrContentNotFound = errors.New("baselock: content not found")

	// ErrReceiptNotFound indicates the transaction hash is unknown or not yet
	// mined. This is a normal outcome, not a chain failure.
	ErrReceiptNotFound = errors.New("baselock: transaction receipt not found")

	// ErrTransactionReverted indicates the referenced transaction executed
	// but reverted.
	ErrTransactionReverted = errors.New("baselock: transaction reverted")

	// ErrChainQuery indicates an RPC or network failure while reading chain
	// state. Retryable with backoff.
	ErrChainQuery = errors.New("baselock: chain query failed")

	// ErrStore indicates a record store failure.
	ErrStore = errors.New("baselock: record store failure")

	// ErrUnsupportedToken indicates payment was made in a token the lock
	// does not accept.
	ErrUnsupportedToken = errors.New("baselock: unsupported payment token")

	// ErrEventMismatch indicates a log entry does not have the Paid event's
	// shape.
	ErrEventMismatch = errors.New("baselock: log does not match Paid event")

	// ErrInvalidAmount indicates a malformed or non-positive amount.
	ErrInvalidAmount = errors.New("baselock: invalid amount")

	// ErrInvalidConfig indicates an incomplete gate configuration.
	ErrInvalidConfig = errors.New("baselock: invalid gate configuration")
)

// IsRetryable reports whether err is a transient chain-query failure that a
// caller may retry with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrChainQuery)
}

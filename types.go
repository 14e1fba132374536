// Package baselock implements payment verification and access gating for
// paywalled content links. Given a claimed on-chain payment and a claimed
// wallet identity, it decides whether the protected reference behind a lock
// may be released.
package baselock

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroAddress is the reserved token value denoting the chain's native asset
// in a Paid event.
var ZeroAddress = common.Address{}

// ReceiptStatusSuccessful is the execution status of a mined, non-reverted
// transaction.
const ReceiptStatusSuccessful uint64 = 1

// Lock is the public, priced gate protecting one piece of content.
// Locks are created once and never mutated.
type Lock struct {
	// ID is the URL-safe slug identifying the lock.
	ID string `json:"id"`

	// Price is the decimal price in stable reference units (e.g. "5" for 5 USDC).
	Price string `json:"price"`

	// Receiver is the sole address authorized to receive payments for this lock.
	Receiver common.Address `json:"receiver"`

	// Title is an optional human-readable label shown on the lock page.
	Title string `json:"title"`

	// CreatedAt is the lock creation time.
	CreatedAt time.Time `json:"createdAt"`
}

// Secret is the confidential record released only after a matched payment.
// It is created atomically with its Lock and never transmitted to a caller
// who has not passed the access gate.
type Secret struct {
	// LinkID is the id of the Lock this secret belongs to (1:1).
	LinkID string `json:"linkId"`

	// TargetReference is the protected reference: a URL or a storage path.
	TargetReference string `json:"targetReference"`

	// ContentKind describes what TargetReference points at (e.g. "url", "file").
	ContentKind string `json:"contentKind"`
}

// PaymentEvent is a decoded Paid event. It is derived per request from chain
// data and never persisted.
type PaymentEvent struct {
	// Payer is the address the payment came from.
	Payer common.Address

	// Receiver is the address the payment went to.
	Receiver common.Address

	// LinkIDCommitment is the keccak256 digest of the lock id the payment
	// was made for. Indexed dynamic event arguments are emitted as their
	// digest, so the raw string is not recoverable from the log.
	LinkIDCommitment common.Hash

	// Amount is the paid amount in the token's smallest unit.
	Amount *big.Int

	// Token is the token contract address; ZeroAddress means the native asset.
	Token common.Address
}

// LogEntry is a raw event log as returned by a chain read client.
type LogEntry struct {
	// Address is the contract that emitted the log.
	Address common.Address

	// Topics are the log's indexed fields; Topics[0] is the event selector.
	Topics []common.Hash

	// Data holds the ABI-encoded non-indexed fields.
	Data []byte
}

// Receipt is the execution outcome of a single mined transaction.
type Receipt struct {
	// Status is the execution status; ReceiptStatusSuccessful means success.
	Status uint64

	// Logs are all event logs the transaction emitted, from any contract.
	Logs []LogEntry
}

// DenyReason identifies why an access decision was denied.
type DenyReason string

const (
	DenyInvalidSignature    DenyReason = "invalid_signature"
	DenyLockNotFound        DenyReason = "lock_not_found"
	DenyContentNotFound     DenyReason = "content_not_found"
	DenyTransactionNotFound DenyReason = "transaction_not_found"
	DenyTransactionReverted DenyReason = "transaction_reverted"
	DenyPaymentNotFound     DenyReason = "payment_not_found"
	DenyWrongLinkID         DenyReason = "wrong_link_id"
	DenyWrongReceiver       DenyReason = "wrong_receiver"
	DenyUnderpaid           DenyReason = "underpaid"
	DenyUnsupportedToken    DenyReason = "unsupported_token"
	DenyWrongPayer          DenyReason = "wrong_payer"
)

// AccessDecision is the outcome of one verification call. The target fields
// are populated only when Granted is true.
type AccessDecision struct {
	Granted bool `json:"granted"`

	// Reason identifies the denial cause. Empty when granted.
	Reason DenyReason `json:"reason,omitempty"`

	// TargetReference is the secret's protected reference.
	TargetReference string `json:"targetReference,omitempty"`

	// ContentKind describes what TargetReference points at.
	ContentKind string `json:"contentKind,omitempty"`
}

// LinkIDCommitment returns the keccak256 digest a Paid event carries for the
// given lock id. The same digest is used as the indexed-topic filter value
// and when comparing a decoded event against a lock.
func LinkIDCommitment(lockID string) common.Hash {
	return crypto.Keccak256Hash([]byte(lockID))
}

// UnlockMessage returns the fixed message a caller must sign to unlock a
// lock. The template is purpose-bound so a signature cannot be reused for an
// unrelated action or a different lock.
func UnlockMessage(lockID string) string {
	return "Unlock content for link: " + lockID
}

// CreateMessage returns the fixed message a creator must sign to create a
// lock.
func CreateMessage(lockID string) string {
	return "Create Lock: " + lockID
}

// AmountToBigInt converts a decimal amount string to *big.Int in atomic units.
// For example, "1.5" with 6 decimals becomes 1500000.
func AmountToBigInt(amount string, decimals int) (*big.Int, error) {
	value := new(big.Float)
	if _, ok := value.SetString(amount); !ok {
		return nil, ErrInvalidAmount
	}

	// Multiply by 10^decimals
	multiplier := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value.Mul(value, multiplier)

	result, accuracy := value.Int(nil)
	if accuracy != big.Exact {
		return nil, ErrInvalidAmount
	}
	return result, nil
}

// BigIntToAmount converts a *big.Int in atomic units to a decimal string.
// For example, 1500000 with 6 decimals becomes "1.5".
func BigIntToAmount(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}

	f := new(big.Float).SetInt(value)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	f.Quo(f, divisor)

	return f.Text('f', decimals)
}

package baselock

import "github.com/ethereum/go-ethereum/common"

// MatchResult is the verdict of evaluating one decoded Paid event against a
// lock. The mismatch values are ordered by how far the event got through the
// checks, so the highest value observed across candidate events is the most
// specific denial reason.
type MatchResult int

const (
	Matched MatchResult = iota
	WrongLinkID
	WrongReceiver
	UnsupportedToken
	Underpaid
	WrongPayer
)

func (r MatchResult) String() string {
	switch r {
	case Matched:
		return "matched"
	case WrongLinkID:
		return "wrong link id"
	case WrongReceiver:
		return "wrong receiver"
	case UnsupportedToken:
		return "unsupported token"
	case Underpaid:
		return "underpaid"
	case WrongPayer:
		return "wrong payer"
	default:
		return "unknown"
	}
}

// DenyReason maps a mismatch verdict to its wire-level denial reason.
func (r MatchResult) DenyReason() DenyReason {
	switch r {
	case WrongLinkID:
		return DenyWrongLinkID
	case WrongReceiver:
		return DenyWrongReceiver
	case UnsupportedToken:
		return DenyUnsupportedToken
	case Underpaid:
		return DenyUnderpaid
	case WrongPayer:
		return DenyWrongPayer
	default:
		return DenyPaymentNotFound
	}
}

// Matcher evaluates decoded Paid events against a lock's requirements.
type Matcher struct {
	Policy *AmountPolicy
}

// Match applies the verification checks in order, short-circuiting at the
// first failure:
//
//  1. the event's link-id commitment matches the lock (payment for lock A
//     cannot unlock lock B),
//  2. the receiver is the lock's configured receiver (no diverted payments),
//  3. the amount satisfies the policy minimum for the token used,
//  4. the payer is the claimed caller (no claiming someone else's payment).
//
// All four checks are mandatory.
func (m *Matcher) Match(event *PaymentEvent, lock *Lock, payer common.Address) MatchResult {
	if event.LinkIDCommitment != LinkIDCommitment(lock.ID) {
		return WrongLinkID
	}
	if event.Receiver != lock.Receiver {
		return WrongReceiver
	}
	min, err := m.Policy.MinimumAcceptable(lock.Price, event.Token)
	if err != nil {
		return UnsupportedToken
	}
	if event.Amount == nil || event.Amount.Cmp(min) < 0 {
		return Underpaid
	}
	if event.Payer != payer {
		return WrongPayer
	}
	return Matched
}

package baselock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/baselock/baselock-go/retry"
)

// GateConfig holds the collaborators and static configuration injected into
// a Gate at construction. All fields except Retry and Logger are required.
type GateConfig struct {
	// Store is the read side of the lock/secret record store.
	Store LockStore

	// Source reads Paid events and transaction receipts from the chain.
	Source EventSource

	// Authenticator verifies wallet signatures.
	Authenticator Authenticator

	// Decoder decodes raw logs into payment events.
	Decoder EventDecoder

	// Policy computes minimum acceptable amounts.
	Policy *AmountPolicy

	// ContractAddress is the payment contract. Receipt logs emitted by any
	// other address are ignored.
	ContractAddress common.Address

	// Retry controls backoff for transient chain-query failures.
	// Zero value uses retry.DefaultConfig.
	Retry retry.Config

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Gate is the verification orchestrator: it authenticates the caller,
// fetches and decodes candidate events, evaluates them against the lock, and
// releases the secret reference only on a matched payment.
//
// A Gate is stateless per call and safe for concurrent use. No call mutates
// the lock or the secret, so repeated polling is idempotent.
type Gate struct {
	store    LockStore
	source   EventSource
	auth     Authenticator
	decoder  EventDecoder
	matcher  Matcher
	contract common.Address
	retry    retry.Config
	logger   *slog.Logger
}

// NewGate validates the configuration and returns a ready gate.
func NewGate(cfg *GateConfig) (*Gate, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case cfg.Store == nil:
		return nil, fmt.Errorf("%w: missing store", ErrInvalidConfig)
	case cfg.Source == nil:
		return nil, fmt.Errorf("%w: missing event source", ErrInvalidConfig)
	case cfg.Authenticator == nil:
		return nil, fmt.Errorf("%w: missing authenticator", ErrInvalidConfig)
	case cfg.Decoder == nil:
		return nil, fmt.Errorf("%w: missing event decoder", ErrInvalidConfig)
	case cfg.Policy == nil:
		return nil, fmt.Errorf("%w: missing amount policy", ErrInvalidConfig)
	case cfg.Policy.StableToken == ZeroAddress:
		// The zero address denotes the native asset; a zero stable token
		// would shadow it in the policy's token switch.
		return nil, fmt.Errorf("%w: missing stable token address", ErrInvalidConfig)
	case cfg.ContractAddress == ZeroAddress:
		return nil, fmt.Errorf("%w: missing contract address", ErrInvalidConfig)
	}

	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Gate{
		store:    cfg.Store,
		source:   cfg.Source,
		auth:     cfg.Authenticator,
		decoder:  cfg.Decoder,
		matcher:  Matcher{Policy: cfg.Policy},
		contract: cfg.ContractAddress,
		retry:    retryCfg,
		logger:   logger,
	}, nil
}

// UnlockRequest carries a caller's claim for receipt-scoped verification.
type UnlockRequest struct {
	LockID    string
	TxHash    common.Hash
	Payer     common.Address
	Signature []byte
}

// Unlock performs receipt-scoped verification: the caller proves control of
// the payer address by signing the unlock message, and the payment must
// appear among the logs of the one referenced transaction.
//
// Transient chain or store failures are returned as errors; every other
// outcome is a decision. The secret is never read for a denied decision.
func (g *Gate) Unlock(ctx context.Context, req UnlockRequest) (*AccessDecision, error) {
	logger := g.logger.With("lock", req.LockID, "payer", req.Payer.Hex())

	if !g.auth.Verify(req.Payer, UnlockMessage(req.LockID), req.Signature) {
		logger.Warn("signature verification failed")
		return deny(DenyInvalidSignature), nil
	}

	lock, err := g.store.GetLock(ctx, req.LockID)
	if errors.Is(err, ErrLockNotFound) {
		return deny(DenyLockNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get lock: %v", ErrStore, err)
	}

	receipt, err := retry.WithRetry(ctx, g.retry, IsRetryable, func() (*Receipt, error) {
		return g.source.Receipt(ctx, req.TxHash)
	})
	if errors.Is(err, ErrReceiptNotFound) {
		logger.Warn("transaction not found", "tx", req.TxHash.Hex())
		return deny(DenyTransactionNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	if receipt.Status != ReceiptStatusSuccessful {
		logger.Warn("transaction reverted", "tx", req.TxHash.Hex())
		return deny(DenyTransactionReverted), nil
	}

	matched, reason := g.evaluate(receipt.Logs, lock, req.Payer)
	if !matched {
		logger.Warn("payment verification failed", "reason", reason)
		return deny(reason), nil
	}

	return g.grant(ctx, lock, logger)
}

// CheckAccess performs a filtered log search for a matching payment by the
// given payer. It is side-effect-free: polling before a transaction is mined
// simply repeats the denial until a matching event appears.
func (g *Gate) CheckAccess(ctx context.Context, lockID string, payer common.Address) (*AccessDecision, error) {
	logger := g.logger.With("lock", lockID, "payer", payer.Hex())

	lock, err := g.store.GetLock(ctx, lockID)
	if errors.Is(err, ErrLockNotFound) {
		return deny(DenyLockNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get lock: %v", ErrStore, err)
	}

	logs, err := retry.WithRetry(ctx, g.retry, IsRetryable, func() ([]LogEntry, error) {
		return g.source.PaidEvents(ctx, payer, LinkIDCommitment(lockID))
	})
	if err != nil {
		return nil, err
	}

	matched, reason := g.evaluate(logs, lock, payer)
	if !matched {
		logger.Warn("no matching payment", "reason", reason)
		return deny(reason), nil
	}

	return g.grant(ctx, lock, logger)
}

// evaluate decodes the candidate logs and reports a match as soon as one
// event passes every check. Otherwise the reason is the most specific
// mismatch observed, or DenyPaymentNotFound when nothing decoded at all;
// undecodable logs and logs from other contracts are skipped and contribute
// no reason.
func (g *Gate) evaluate(logs []LogEntry, lock *Lock, payer common.Address) (matched bool, reason DenyReason) {
	var verdict MatchResult
	seen := false

	for _, entry := range logs {
		if entry.Address != g.contract {
			continue
		}
		event, err := g.decoder.Decode(entry)
		if err != nil {
			continue
		}
		result := g.matcher.Match(event, lock, payer)
		if result == Matched {
			return true, ""
		}
		if !seen || result > verdict {
			verdict = result
			seen = true
		}
	}

	if !seen {
		return false, DenyPaymentNotFound
	}
	return false, verdict.DenyReason()
}

func (g *Gate) grant(ctx context.Context, lock *Lock, logger *slog.Logger) (*AccessDecision, error) {
	secret, err := g.store.GetSecret(ctx, lock.ID)
	if errors.Is(err, ErrContentNotFound) {
		return deny(DenyContentNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get secret: %v", ErrStore, err)
	}

	logger.Info("payment verified, access granted")
	return &AccessDecision{
		Granted:         true,
		TargetReference: secret.TargetReference,
		ContentKind:     secret.ContentKind,
	}, nil
}

func deny(reason DenyReason) *AccessDecision {
	return &AccessDecision{Granted: false, Reason: reason}
}

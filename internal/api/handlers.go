package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	baselock "github.com/baselock/baselock-go"
	"github.com/baselock/baselock-go/config"
	"github.com/baselock/baselock-go/internal/store"
	"github.com/baselock/baselock-go/validation"
)

// Handler serves the lock service's HTTP surface: lock creation, payment
// polling, and receipt-scoped unlocking.
type Handler struct {
	gate     *baselock.Gate
	store    store.Store
	auth     baselock.Authenticator
	logger   *slog.Logger
	minPrice *big.Rat
	maxPrice *big.Rat
}

func NewHandler(gate *baselock.Gate, s store.Store, auth baselock.Authenticator, cfg *config.Config, logger *slog.Logger) (*Handler, error) {
	min, max, err := cfg.PriceBounds()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		gate:     gate,
		store:    s,
		auth:     auth,
		logger:   logger,
		minPrice: min,
		maxPrice: max,
	}, nil
}

type CreateLockRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	ReceiverAddress string `json:"receiverAddress"`
	TargetReference string `json:"targetReference"`
	ContentKind     string `json:"contentKind"`
}

type CreateLockResponse struct {
	Success bool   `json:"success"`
	Slug    string `json:"slug"`
}

type AccessResponse struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason,omitempty"`
	Content string `json:"content,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type UnlockAPIRequest struct {
	LinkID      string `json:"linkId"`
	TxHash      string `json:"txHash"`
	UserAddress string `json:"userAddress"`
	Signature   string `json:"signature"`
}

type UnlockResponse struct {
	Success         bool   `json:"success"`
	TargetReference string `json:"targetReference,omitempty"`
	Kind            string `json:"kind,omitempty"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateLock creates a lock and its secret atomically. The creator proves
// control of the submitting wallet by signing the fixed creation message in
// the X-Address / X-Signature headers.
func (h *Handler) CreateLock(w http.ResponseWriter, r *http.Request) {
	var req CreateLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateSlug(req.Slug); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateAddress(req.ReceiverAddress); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidatePrice(req.Price, h.minPrice, h.maxPrice); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TargetReference == "" {
		h.error(w, http.StatusBadRequest, "targetReference is required")
		return
	}

	address := r.Header.Get("X-Address")
	signature := r.Header.Get("X-Signature")
	if address == "" || signature == "" {
		h.error(w, http.StatusUnauthorized, "missing wallet signature")
		return
	}
	if err := validation.ValidateAddress(address); err != nil {
		h.error(w, http.StatusUnauthorized, err.Error())
		return
	}
	sig, err := hexutil.Decode(signature)
	if err != nil || !h.auth.Verify(common.HexToAddress(address), baselock.CreateMessage(req.Slug), sig) {
		h.error(w, http.StatusUnauthorized, "invalid wallet signature")
		return
	}

	kind := req.ContentKind
	if kind == "" {
		kind = "url"
	}

	lock := &baselock.Lock{
		ID:        req.Slug,
		Price:     req.Price,
		Receiver:  common.HexToAddress(req.ReceiverAddress),
		Title:     req.Title,
		CreatedAt: time.Now().UTC(),
	}
	secret := &baselock.Secret{
		LinkID:          req.Slug,
		TargetReference: req.TargetReference,
		ContentKind:     kind,
	}

	if err := store.CreateLocked(r.Context(), h.store, lock, secret); err != nil {
		if errors.Is(err, store.ErrLockExists) {
			h.error(w, http.StatusConflict, "slug already taken")
			return
		}
		h.logger.Error("lock creation failed", "slug", req.Slug, "error", err)
		h.error(w, http.StatusInternalServerError, "failed to create lock")
		return
	}

	h.logger.Info("lock created", "slug", req.Slug, "receiver", lock.Receiver.Hex())
	h.json(w, http.StatusCreated, CreateLockResponse{Success: true, Slug: req.Slug})
}

// CheckAccess polls for a matching payment by the given payer. No signature
// is required; the secret is only released against a verified on-chain
// payment from that payer.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	lockID := chi.URLParam(r, "lockID")
	payer := r.URL.Query().Get("payer")

	if payer == "" {
		h.error(w, http.StatusBadRequest, "missing payer address")
		return
	}
	if err := validation.ValidateAddress(payer); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}

	decision, err := h.gate.CheckAccess(r.Context(), lockID, common.HexToAddress(payer))
	if err != nil {
		h.gateError(w, err)
		return
	}

	switch {
	case decision.Granted:
		h.json(w, http.StatusOK, AccessResponse{
			Granted: true,
			Content: decision.TargetReference,
			Kind:    decision.ContentKind,
		})
	case decision.Reason == baselock.DenyLockNotFound:
		h.error(w, http.StatusNotFound, "lock not found")
	case decision.Reason == baselock.DenyContentNotFound:
		h.error(w, http.StatusNotFound, "content not found")
	default:
		h.json(w, http.StatusPaymentRequired, AccessResponse{
			Granted: false,
			Reason:  string(decision.Reason),
		})
	}
}

// Unlock performs receipt-scoped verification of a specific transaction.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.LinkID == "" || req.TxHash == "" || req.UserAddress == "" || req.Signature == "" {
		h.error(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if err := validation.ValidateTxHash(req.TxHash); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateAddress(req.UserAddress); err != nil {
		h.error(w, http.StatusBadRequest, err.Error())
		return
	}

	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		// Malformed signature bytes are an authentication failure, not a
		// validation error the caller can fix by re-encoding.
		h.error(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	decision, err := h.gate.Unlock(r.Context(), baselock.UnlockRequest{
		LockID:    req.LinkID,
		TxHash:    common.HexToHash(req.TxHash),
		Payer:     common.HexToAddress(req.UserAddress),
		Signature: sig,
	})
	if err != nil {
		h.gateError(w, err)
		return
	}

	if decision.Granted {
		h.json(w, http.StatusOK, UnlockResponse{
			Success:         true,
			TargetReference: decision.TargetReference,
			Kind:            decision.ContentKind,
		})
		return
	}

	switch decision.Reason {
	case baselock.DenyInvalidSignature:
		h.error(w, http.StatusUnauthorized, "invalid signature")
	case baselock.DenyLockNotFound:
		h.error(w, http.StatusNotFound, "lock not found")
	case baselock.DenyTransactionNotFound:
		h.error(w, http.StatusNotFound, "transaction not found")
	case baselock.DenyContentNotFound:
		h.error(w, http.StatusNotFound, "content not found")
	case baselock.DenyTransactionReverted:
		h.error(w, http.StatusBadRequest, "transaction failed")
	default:
		h.json(w, http.StatusBadRequest, ErrorResponse{
			Error:  "payment verification failed",
			Reason: string(decision.Reason),
		})
	}
}

// gateError maps engine errors to responses: transient chain failures are
// retryable 502s, everything else is a 500.
func (h *Handler) gateError(w http.ResponseWriter, err error) {
	if baselock.IsRetryable(err) {
		h.logger.Warn("chain query failed", "error", err)
		h.error(w, http.StatusBadGateway, "chain query failed, retry later")
		return
	}
	h.logger.Error("verification failed", "error", err)
	h.error(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("response encoding failed", "error", err)
	}
}

func (h *Handler) error(w http.ResponseWriter, status int, msg string) {
	h.json(w, status, ErrorResponse{Error: msg})
}

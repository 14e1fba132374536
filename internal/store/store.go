// Package store persists lock metadata and secrets.
package store

import (
	"context"
	"errors"

	baselock "github.com/baselock/baselock-go"
)

// ErrLockExists indicates the slug is already taken.
var ErrLockExists = errors.New("store: lock already exists")

// Store is the full record-store contract. Read misses are reported with
// baselock.ErrLockNotFound and baselock.ErrContentNotFound so the gate can
// classify them without knowing the backend; the verification engine only
// ever uses the read side.
type Store interface {
	GetLock(ctx context.Context, id string) (*baselock.Lock, error)
	GetSecret(ctx context.Context, linkID string) (*baselock.Secret, error)

	CreateLock(ctx context.Context, lock *baselock.Lock) error
	CreateSecret(ctx context.Context, secret *baselock.Secret) error
	DeleteLock(ctx context.Context, id string) error
	DeleteSecret(ctx context.Context, linkID string) error

	Close() error
}

// CreateLocked creates a lock and its secret as a unit: when the secret
// write fails the lock is rolled back so no orphan lock remains.
func CreateLocked(ctx context.Context, s Store, lock *baselock.Lock, secret *baselock.Secret) error {
	if err := s.CreateLock(ctx, lock); err != nil {
		return err
	}
	if err := s.CreateSecret(ctx, secret); err != nil {
		// Best-effort rollback; the secret error is the one worth reporting.
		_ = s.DeleteLock(ctx, lock.ID)
		return err
	}
	return nil
}

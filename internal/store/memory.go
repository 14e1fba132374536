package store

import (
	"context"
	"sync"

	baselock "github.com/baselock/baselock-go"
)

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

// MemoryStore is a non-persistent Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	locks   map[string]*baselock.Lock
	secrets map[string]*baselock.Secret
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:   make(map[string]*baselock.Lock),
		secrets: make(map[string]*baselock.Secret),
	}
}

func (s *MemoryStore) GetLock(ctx context.Context, id string) (*baselock.Lock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, ok := s.locks[id]
	if !ok {
		return nil, baselock.ErrLockNotFound
	}
	copied := *lock
	return &copied, nil
}

func (s *MemoryStore) GetSecret(ctx context.Context, linkID string) (*baselock.Secret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[linkID]
	if !ok {
		return nil, baselock.ErrContentNotFound
	}
	copied := *secret
	return &copied, nil
}

func (s *MemoryStore) CreateLock(ctx context.Context, lock *baselock.Lock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[lock.ID]; ok {
		return ErrLockExists
	}
	copied := *lock
	s.locks[lock.ID] = &copied
	return nil
}

func (s *MemoryStore) CreateSecret(ctx context.Context, secret *baselock.Secret) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.secrets[secret.LinkID]; ok {
		return ErrLockExists
	}
	copied := *secret
	s.secrets[secret.LinkID] = &copied
	return nil
}

func (s *MemoryStore) DeleteLock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, id)
	return nil
}

func (s *MemoryStore) DeleteSecret(ctx context.Context, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, linkID)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locks = nil
	s.secrets = nil
	return nil
}

package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	baselock "github.com/baselock/baselock-go"
)

var _ Store = (*RedisStore)(nil)

// RedisStore persists locks and secrets in Redis, gob-encoded. Lock and
// secret records are write-once: creation uses SETNX so a taken slug is
// reported as ErrLockExists.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(options *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(options)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: redis ping: %v", baselock.ErrStore, err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) GetLock(ctx context.Context, id string) (*baselock.Lock, error) {
	data, err := r.client.Get(ctx, lockKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, baselock.ErrLockNotFound
		}
		return nil, fmt.Errorf("%w: get lock: %v", baselock.ErrStore, err)
	}

	var lock baselock.Lock
	if err := decode(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

func (r *RedisStore) GetSecret(ctx context.Context, linkID string) (*baselock.Secret, error) {
	data, err := r.client.Get(ctx, secretKey(linkID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, baselock.ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: get secret: %v", baselock.ErrStore, err)
	}

	var secret baselock.Secret
	if err := decode(data, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

func (r *RedisStore) CreateLock(ctx context.Context, lock *baselock.Lock) error {
	data, err := encode(lock)
	if err != nil {
		return err
	}

	set, err := r.client.SetNX(ctx, lockKey(lock.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: create lock: %v", baselock.ErrStore, err)
	}
	if !set {
		return ErrLockExists
	}
	return nil
}

func (r *RedisStore) CreateSecret(ctx context.Context, secret *baselock.Secret) error {
	data, err := encode(secret)
	if err != nil {
		return err
	}

	set, err := r.client.SetNX(ctx, secretKey(secret.LinkID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: create secret: %v", baselock.ErrStore, err)
	}
	if !set {
		return ErrLockExists
	}
	return nil
}

func (r *RedisStore) DeleteLock(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, lockKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: delete lock: %v", baselock.ErrStore, err)
	}
	return nil
}

func (r *RedisStore) DeleteSecret(ctx context.Context, linkID string) error {
	if err := r.client.Del(ctx, secretKey(linkID)).Err(); err != nil {
		return fmt.Errorf("%w: delete secret: %v", baselock.ErrStore, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Helpers

func lockKey(id string) string {
	return "lock:" + id
}

func secretKey(linkID string) string {
	return "secret:" + linkID
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", baselock.ErrStore, err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", baselock.ErrStore, err)
	}
	return nil
}

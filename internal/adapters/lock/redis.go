// Package lock provides ports.TransitionLocker implementations.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/SscSPs/disbursement_app/internal/core/ports"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	retryInterval = 50 * time.Millisecond
	maxRetries    = 20
)

// RedisLocker obtains per-key locks through redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

var _ ports.TransitionLocker = (*RedisLocker)(nil)

// NewRedisClient parses url (redis://...) and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisLocker creates a locker whose locks expire after ttl unless released.
func NewRedisLocker(rdb redislock.RedisClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl}
}

// Obtain waits briefly for key, then reports apperrors.ErrConflict.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (ports.ReleaseFunc, error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), maxRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s is being updated by another request", apperrors.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// NoopLocker is used when no Redis is configured. Row locks in the database still serialize transitions.
type NoopLocker struct{}

var _ ports.TransitionLocker = NoopLocker{}

func (NoopLocker) Obtain(context.Context, string) (ports.ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

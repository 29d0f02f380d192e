package locks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes work on a named resource. Used to guard concurrent
// refreshes of the same symbol, which would otherwise race on the
// "latest recommendation" read before the transactional write.
type Locker interface {
	// Acquire blocks until the lock for key is held, the context is
	// cancelled, or the attempt budget is exhausted.
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

const (
	lockTTL       = 30 * time.Second
	retryInterval = 100 * time.Millisecond
	maxAttempts   = 300
)

// redisLocker implements Locker with a SET NX advisory lock per key. The TTL
// bounds how long a crashed holder can block other instances.
type redisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a Locker backed by Redis.
func NewRedisLocker(client *redis.Client, prefix string) Locker {
	return &redisLocker{client: client, prefix: prefix}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) error {
	name := l.prefix + key
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ok, err := l.client.SetNX(ctx, name, "1", lockTTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return fmt.Errorf("timed out acquiring lock %s", name)
}

func (l *redisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}

// mutexLocker is an in-process Locker keyed by name. Suitable for
// single-instance deployments and tests.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMutexLocker creates an in-process Locker.
func NewMutexLocker() Locker {
	return &mutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *mutexLocker) Acquire(_ context.Context, key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return nil
}

func (l *mutexLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	l.mu.Unlock()
	if ok {
		m.Unlock()
	}
	return nil
}

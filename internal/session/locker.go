package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "game-lock:"

// Locker serializes turns per session. Acquire returns ErrBusy when another
// holder has the session; the returned func releases the lock.
type Locker interface {
	Acquire(ctx context.Context, id uuid.UUID) (release func(), err error)
}

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker holds "game-lock:<id>" with SETNX. The TTL bounds how long a
// crashed holder can block a session.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, logger: logger}
}

func lockKey(id uuid.UUID) string {
	return lockKeyPrefix + id.String()
}

func (l *RedisLocker) Acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, lockKey(id), token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire game lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}

	return func() {
		// The request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{lockKey(id)}, token).Err(); err != nil {
			l.logger.Error("Failed to release game lock", "error", err, "game_state_id", id)
		}
	}, nil
}

// MemoryLocker is an in-process Locker for single-instance deployments.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[uuid.UUID]struct{})}
}

func (l *MemoryLocker) Acquire(_ context.Context, id uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[id]; busy {
		return nil, ErrBusy
	}
	l.held[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, id)
			l.mu.Unlock()
		})
	}, nil
}

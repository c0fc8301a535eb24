package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a best-effort distributed lock (SET NX PX + token check).
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *slog.Logger
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: "vet-scheduler:lock:",
		ttl:    ttl,
		wait:   wait,
		retry:  50 * time.Millisecond,
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("lock: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("lock: ping redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("lock: setnx %s: %w", fullKey, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}

	return func() {
		// The request context may already be gone; release on a fresh one.
		rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
		defer rcancel()

		if err := releaseScript.Run(rctx, l.client, []string{fullKey}, token).Err(); err != nil {
			l.logger.Warn("lock release failed",
				slog.String("key", fullKey),
				slog.String("error", err.Error()),
			)
		}
	}, nil
}

var _ Locker = (*RedisLocker)(nil)

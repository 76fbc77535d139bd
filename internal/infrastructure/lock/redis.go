package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"PolicyPal/internal/config"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const keyPrefix = "policypal:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock implements named run-locks with SET NX PX.
type RedisLock struct {
	client *redis.Client
	logger *logging.Logger
}

var _ ports.RunLock = (*RedisLock)(nil)

// NewRedisLock returns nil when no address is configured.
func NewRedisLock(cfg config.RedisConfig, logger *logging.Logger) *RedisLock {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisLock{client: client, logger: logger}
}

// Ping verifies the connection.
func (l *RedisLock) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Acquire sets the lock key if absent. The returned release is a no-op once
// the lease has expired and been taken by someone else.
func (l *RedisLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	key := keyPrefix + name

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("release lock failed", "lock", name, "error", err)
		}
	}
	return release, true, nil
}

// Close shuts the client down.
func (l *RedisLock) Close() error {
	return l.client.Close()
}

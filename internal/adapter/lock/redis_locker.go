package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ErrLockHeld is returned once retries run out while another node holds the
// resource lock.
var ErrLockHeld = errors.New("resource lock held by another arbiter")

// releaseScript deletes the key only if it still carries our token, so a
// lease that expired and was taken over is never released by the old owner.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker serializes arbiters across processes with a leased SET NX key
// per resource.
type RedisLocker struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	backoff func() retry.Backoff
	token   func() string
}

type Option func(*RedisLocker)

// WithBackoff replaces the acquisition backoff. The factory is called once
// per Lock since backoffs are stateful.
func WithBackoff(f func() retry.Backoff) Option {
	return func(l *RedisLocker) { l.backoff = f }
}

func WithTokenGenerator(f func() string) Option {
	return func(l *RedisLocker) { l.token = f }
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger, opts ...Option) *RedisLocker {
	l := &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(10 * time.Millisecond)
			b = retry.WithJitterPercent(20, b)
			b = retry.WithCappedDuration(250*time.Millisecond, b)
			return retry.WithMaxDuration(5*time.Second, b)
		},
		token: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func Key(resourceID uuid.UUID) string {
	return fmt.Sprintf("lock:resource:%s", resourceID.String())
}

func (l *RedisLocker) Lock(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	key := Key(resourceID)
	token := l.token()

	err := retry.Do(ctx, l.backoff(), func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(ErrLockHeld)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release resource lock",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tourpad/scheduler/internal/core/domain"
)

// VersionField holds the calendar version every other field in the hash was
// computed from. Range fields always contain a slash, so they cannot clash.
const VersionField = "_version"

// setScript stores a range only if the hash still belongs to the version the
// result was computed from. A newer version means a writer committed after the
// read, so the result is dropped; an older one is replaced wholesale.
const setScript = `
local current = redis.call("HGET", KEYS[1], "_version")
if current then
	if tonumber(current) > tonumber(ARGV[1]) then
		return 0
	end
	if tonumber(current) < tonumber(ARGV[1]) then
		redis.call("DEL", KEYS[1])
	end
end
redis.call("HSET", KEYS[1], "_version", ARGV[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[4])
end
return 1`

// invalidateScript drops every cached range and records the new version so a
// reader that loaded the previous one cannot write its result back.
const invalidateScript = `
redis.call("DEL", KEYS[1])
redis.call("HSET", KEYS[1], "_version", ARGV[1])
if tonumber(ARGV[2]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1`

// RedisAvailabilityCache memoizes availability queries. All cached ranges
// for a resource live in one hash, tagged with the calendar version they were
// read at, so a single script drops them after a write.
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

func Key(resourceID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", resourceID.String())
}

// Field keys a range by the boundaries exactly as the caller sent them.
func Field(start, end string) string {
	return start + "/" + end
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, resourceID uuid.UUID, start, end string) ([]domain.ReservedWindow, bool, error) {
	raw, err := c.client.HGet(ctx, Key(resourceID), Field(start, end)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read availability cache: %w", err)
	}

	var windows []domain.ReservedWindow
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		return nil, false, fmt.Errorf("decode availability cache: %w", err)
	}
	return windows, true, nil
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, resourceID uuid.UUID, start, end string, version int, windows []domain.ReservedWindow) error {
	if windows == nil {
		windows = []domain.ReservedWindow{}
	}
	data, err := json.Marshal(windows)
	if err != nil {
		return fmt.Errorf("encode availability cache: %w", err)
	}

	err = c.client.Eval(ctx, setScript, []string{Key(resourceID)},
		version, Field(start, end), string(data), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("write availability cache: %w", err)
	}
	return nil
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, resourceID uuid.UUID, version int) error {
	err := c.client.Eval(ctx, invalidateScript, []string{Key(resourceID)}, version, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("invalidate availability cache: %w", err)
	}
	return nil
}

package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/adapter/lock"
)

func fastBackoff(retries uint64) lock.Option {
	return lock.WithBackoff(func() retry.Backoff {
		return retry.WithMaxRetries(retries, retry.NewConstant(time.Millisecond))
	})
}

func fixedToken(token string) lock.Option {
	return lock.WithTokenGenerator(func() string { return token })
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	locker := lock.NewRedisLocker(db, 30*time.Second, zap.NewNop(), fastBackoff(3), fixedToken("tok-1"))

	resourceID := uuid.New()
	key := lock.Key(resourceID)
	mockRedis.ExpectSetNX(key, "tok-1", 30*time.Second).SetVal(true)
	mockRedis.ExpectEval(lock.ReleaseScript, []string{key}, "tok-1").SetVal(int64(1))

	release, err := locker.Lock(context.Background(), resourceID)
	require.NoError(t, err)
	release()
	release()

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisLocker_RetriesWhileHeld(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	locker := lock.NewRedisLocker(db, time.Second, zap.NewNop(), fastBackoff(3), fixedToken("tok-2"))

	resourceID := uuid.New()
	key := lock.Key(resourceID)
	mockRedis.ExpectSetNX(key, "tok-2", time.Second).SetVal(false)
	mockRedis.ExpectSetNX(key, "tok-2", time.Second).SetVal(true)

	release, err := locker.Lock(context.Background(), resourceID)

	require.NoError(t, err)
	assert.NotNil(t, release)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisLocker_GivesUp(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	locker := lock.NewRedisLocker(db, time.Second, zap.NewNop(), fastBackoff(1), fixedToken("tok-3"))

	resourceID := uuid.New()
	key := lock.Key(resourceID)
	mockRedis.ExpectSetNX(key, "tok-3", time.Second).SetVal(false)
	mockRedis.ExpectSetNX(key, "tok-3", time.Second).SetVal(false)

	release, err := locker.Lock(context.Background(), resourceID)

	assert.Nil(t, release)
	assert.ErrorIs(t, err, lock.ErrLockHeld)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

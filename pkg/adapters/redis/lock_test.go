package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blend/pkg/adapters/redis"
	"github.com/aretw0/blend/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DistributedLocker = (*redis.Locker)(nil)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "c1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:c1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:c1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	mr, client := setup(t)
	first := redis.NewLocker(client, "test:")
	second := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := first.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	timeoutCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = second.Lock(timeoutCtx, "shared", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := second.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	defer unlock2(ctx)
	assert.True(t, mr.Exists("test:lock:shared"))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock2, err := locker.Lock(ctx, "k", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("test:lock:k"), "a stale owner must not release a lock it lost")

	require.NoError(t, unlock2(ctx))
	assert.False(t, mr.Exists("test:lock:k"))
}

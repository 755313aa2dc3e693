package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/blend/pkg/adapters/redis"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.CombinationStore = (*redis.Store)(nil)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunCombinationStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_ListOrderedByCreation(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early", "middle"} {
		c := domain.NewCombination(id)
		c.CreatedAt = base.Add(time.Duration([]int{3, 1, 2}[i]) * time.Minute)
		require.NoError(t, store.Save(ctx, c))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "middle", "late"}, ids)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewCombination("short-lived")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "short-lived")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrCombinationNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	members, err := mr.ZMembers(redis.DefaultPrefix + "index")
	if err == nil {
		assert.Empty(t, members, "expired entries should be pruned from the index")
	}
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewCombination("mine")))

	assert.True(t, mr.Exists("custom:app:mine"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, ids)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCombinationNotFound)
}

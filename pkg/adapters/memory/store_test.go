package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/blend/pkg/adapters/memory"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.CombinationStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunCombinationStoreContract(t, store)
}

func TestMemoryStore_ListOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, domain.NewCombination(id)))
	}
	require.NoError(t, store.Save(ctx, domain.NewCombination("a")))
	require.NoError(t, store.Delete(ctx, "c"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blend/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCombinationStoreContract runs a suite of tests to verify that a CombinationStore
// implementation adheres to the defined interface contract.
func RunCombinationStoreContract(t *testing.T, store CombinationStore) {
	ctx := context.Background()
	id := "contract-test-combination-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		c := domain.NewCombination(id)
		c.Name = "Dough"
		c.Description = "Base dough"
		c.Terms = []domain.Term{
			{InputID: "i1", InputName: "Sugar", Coefficient: 0.5},
			{InputID: "i2", InputName: "Butter", Coefficient: -2},
		}

		require.NoError(t, store.Save(ctx, c), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, c.ID, loaded.ID)
		assert.Equal(t, "Dough", loaded.Name)
		assert.Equal(t, "Base dough", loaded.Description)
		assert.Equal(t, c.Terms, loaded.Terms)
		assert.True(t, c.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		c := domain.NewCombination(id)
		c.Name = "Renamed"
		require.NoError(t, store.Save(ctx, c))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", loaded.Name)
		assert.Empty(t, loaded.Terms)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		c := domain.NewCombination(id)
		c.Terms = []domain.Term{{InputID: "i1", InputName: "Sugar", Coefficient: 1}}
		require.NoError(t, store.Save(ctx, c))

		c.Terms[0].Coefficient = 99

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1.0, loaded.Terms[0].Coefficient, "store must not alias caller memory")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrCombinationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewCombination(id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrCombinationNotFound, "Load after Delete should return ErrCombinationNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, domain.NewCombination(id1))
		_ = store.Save(ctx, domain.NewCombination(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

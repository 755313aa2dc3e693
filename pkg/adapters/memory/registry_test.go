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

var _ ports.Registry = (*memory.Registry)(nil)

func TestRegistry_CopiesAndReplaces(t *testing.T) {
	ids := []domain.Identifier{{ID: "i1", Name: "Sugar"}, {ID: "i2", Name: "Butter"}}
	reg := memory.NewRegistry(ids...)
	ctx := context.Background()

	got, err := reg.Identifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, got)

	got[0].Name = "mutated"
	again, _ := reg.Identifiers(ctx)
	assert.Equal(t, "Sugar", again[0].Name)

	reg.Set([]domain.Identifier{{ID: "i3", Name: "Salt"}})
	again, _ = reg.Identifiers(ctx)
	assert.Equal(t, []domain.Identifier{{ID: "i3", Name: "Salt"}}, again)
}

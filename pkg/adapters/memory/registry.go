package memory

import (
	"context"
	"sync"

	"github.com/aretw0/blend/pkg/domain"
)

// Registry implements ports.Registry over a fixed list.
// Set replaces the list atomically, which lets hosts refresh the inputs
// without rebuilding the services that read them.
type Registry struct {
	mu  sync.RWMutex
	ids []domain.Identifier
}

// NewRegistry creates a registry holding ids in the given order.
func NewRegistry(ids ...domain.Identifier) *Registry {
	r := &Registry{}
	r.Set(ids)
	return r
}

// Set replaces the registry contents.
func (r *Registry) Set(ids []domain.Identifier) {
	copied := make([]domain.Identifier, len(ids))
	copy(copied, ids)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = copied
}

// Identifiers returns a copy of the registry contents.
func (r *Registry) Identifiers(ctx context.Context) ([]domain.Identifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Identifier, len(r.ids))
	copy(out, r.ids)
	return out, nil
}

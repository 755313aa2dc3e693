package ports

import (
	"context"

	"github.com/aretw0/blend/pkg/domain"
)

// Registry supplies the ordered, read-only list of identifiers that formulas may reference.
// The engine never writes to it.
type Registry interface {
	Identifiers(ctx context.Context) ([]domain.Identifier, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(ctx context.Context) ([]domain.Identifier, error)

// Identifiers calls f.
func (f RegistryFunc) Identifiers(ctx context.Context) ([]domain.Identifier, error) {
	return f(ctx)
}

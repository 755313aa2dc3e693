package ports

import (
	"context"

	"github.com/aretw0/blend/pkg/domain"
)

// CombinationStore defines the interface for persisting combinations.
// It is a plain read/replace store: all term-level editing happens in the
// combination service, which loads, mutates and saves whole records.
type CombinationStore interface {
	// Save replaces the stored record for c.ID.
	Save(ctx context.Context, c *domain.Combination) error

	// Load retrieves a combination.
	// Returns domain.ErrCombinationNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Combination, error)

	// Delete removes a combination. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored combinations.
	List(ctx context.Context) ([]string, error)
}

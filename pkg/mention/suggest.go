package mention

import (
	"slices"
	"strings"

	"github.com/aretw0/blend/internal/textmatch"
	"github.com/aretw0/blend/pkg/domain"
)

// DefaultLimit is the number of suggestions returned when no limit is given.
const DefaultLimit = 6

// Suggest returns the registry entries whose name contains query ignoring case,
// in registry order, truncated to limit. An empty query lists the first entries.
func Suggest(registry []domain.Identifier, query string, limit int) []domain.Identifier {
	if limit <= 0 {
		limit = DefaultLimit
	}
	key := textmatch.Key(query)

	out := make([]domain.Identifier, 0, min(limit, len(registry)))
	for _, id := range registry {
		if len(out) == limit {
			break
		}
		if key == "" || strings.Contains(textmatch.Key(id.Name), key) {
			out = append(out, id)
		}
	}
	return out
}

// Exclude drops entries whose ID is in used, keeping order.
func Exclude(registry []domain.Identifier, used []string) []domain.Identifier {
	if len(used) == 0 {
		return registry
	}
	out := make([]domain.Identifier, 0, len(registry))
	for _, id := range registry {
		if !slices.Contains(used, id.ID) {
			out = append(out, id)
		}
	}
	return out
}

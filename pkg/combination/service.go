package combination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/observability"
	"github.com/aretw0/blend/pkg/ports"
	"github.com/google/uuid"
)

// CopySuffix is appended to the name of a duplicated combination.
const CopySuffix = " (copy)"

// Service exposes the combination operations over a store.
type Service struct {
	store ports.CombinationStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	newID   func() string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records mutations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDGenerator overrides how new combination IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a Service over store.
func NewService(store ports.CombinationStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		newID:   uuid.NewString,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get loads one combination.
func (s *Service) Get(ctx context.Context, id string) (*domain.Combination, error) {
	return s.store.Load(ctx, id)
}

// List loads every combination, oldest first.
func (s *Service) List(ctx context.Context) ([]*domain.Combination, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Combination, 0, len(ids))
	for _, id := range ids {
		c, err := s.store.Load(ctx, id)
		if errors.Is(err, domain.ErrCombinationNotFound) {
			continue // deleted between List and Load
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Add creates an empty combination.
func (s *Service) Add(ctx context.Context) (*domain.Combination, error) {
	c := domain.NewCombination(s.newID())
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create combination: %w", err)
	}
	s.logger.Debug("Combination created", "combination_id", c.ID)
	s.metrics.Mutated("add")
	return c, nil
}

// SetName renames a combination.
func (s *Service) SetName(ctx context.Context, id, name string) (*domain.Combination, error) {
	return s.update(ctx, id, "set_name", func(c *domain.Combination) (bool, error) {
		c.Name = name
		return true, nil
	})
}

// SetDescription replaces a combination's description.
func (s *Service) SetDescription(ctx context.Context, id, description string) (*domain.Combination, error) {
	return s.update(ctx, id, "set_description", func(c *domain.Combination) (bool, error) {
		c.Description = description
		return true, nil
	})
}

// AddTerm appends a term with coefficient 1 for ident.
// It is a no-op when the combination already references ident.ID; the returned
// flag reports whether a term was added.
func (s *Service) AddTerm(ctx context.Context, id string, ident domain.Identifier) (*domain.Combination, bool, error) {
	var added bool
	c, err := s.update(ctx, id, "add_term", func(c *domain.Combination) (bool, error) {
		if c.IndexOf(ident.ID) >= 0 {
			return false, nil
		}
		c.Terms = append(c.Terms, domain.Term{InputID: ident.ID, InputName: ident.Name, Coefficient: 1})
		added = true
		return true, nil
	})
	return c, added, err
}

// RemoveTerm drops every term referencing inputID.
func (s *Service) RemoveTerm(ctx context.Context, id, inputID string) (*domain.Combination, error) {
	return s.update(ctx, id, "remove_term", func(c *domain.Combination) (bool, error) {
		kept := c.Terms[:0]
		for _, t := range c.Terms {
			if t.InputID != inputID {
				kept = append(kept, t)
			}
		}
		changed := len(kept) != len(c.Terms)
		c.Terms = kept
		return changed, nil
	})
}

// SetCoefficient updates the coefficient of the term referencing inputID.
// Unknown inputs are ignored. NaN and infinities are rejected.
func (s *Service) SetCoefficient(ctx context.Context, id, inputID string, value float64) (*domain.Combination, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, domain.ErrInvalidCoefficient
	}
	return s.update(ctx, id, "set_coefficient", func(c *domain.Combination) (bool, error) {
		i := c.IndexOf(inputID)
		if i < 0 {
			return false, nil
		}
		c.Terms[i].Coefficient = value
		return true, nil
	})
}

// ReplaceTerms overwrites the term list. This is the commit path of direct entry.
func (s *Service) ReplaceTerms(ctx context.Context, id string, terms []domain.Term) (*domain.Combination, error) {
	for _, t := range terms {
		if math.IsNaN(t.Coefficient) || math.IsInf(t.Coefficient, 0) {
			return nil, domain.ErrInvalidCoefficient
		}
	}
	return s.update(ctx, id, "replace_terms", func(c *domain.Combination) (bool, error) {
		c.Terms = domain.CloneTerms(terms)
		return true, nil
	})
}

// Duplicate copies a combination under a new ID.
func (s *Service) Duplicate(ctx context.Context, id string) (*domain.Combination, error) {
	src, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := domain.NewCombination(s.newID())
	dup.Name = src.Name + CopySuffix
	dup.Description = src.Description
	dup.Terms = domain.CloneTerms(src.Terms)

	if err := s.store.Save(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to save duplicate: %w", err)
	}
	s.logger.Debug("Combination duplicated", "combination_id", id, "copy_id", dup.ID)
	s.metrics.Mutated("duplicate")
	return dup, nil
}

// Delete removes a combination.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.withLock(ctx, id, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	})
	if err == nil {
		s.metrics.Mutated("delete")
	}
	return err
}

// update runs a read-modify-write cycle under the combination lock.
// mutate reports whether anything changed; unchanged records are not saved.
func (s *Service) update(ctx context.Context, id, op string, mutate func(*domain.Combination) (bool, error)) (*domain.Combination, error) {
	var out *domain.Combination
	err := s.withLock(ctx, id, func(ctx context.Context) error {
		c, err := s.store.Load(ctx, id)
		if err != nil {
			return err
		}
		changed, err := mutate(c)
		if err != nil {
			return err
		}
		if changed {
			if err := s.store.Save(ctx, c); err != nil {
				return fmt.Errorf("failed to save combination: %w", err)
			}
			s.metrics.Mutated(op)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

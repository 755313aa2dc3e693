package combination

import (
	"context"
	"fmt"
	"sync"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (s *Service) acquire(id string) *lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.locks[id]
	if !exists {
		entry = &lockEntry{}
		s.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(s.locks, id)
	}
}

// withLock executes fn while holding the lock for the combination.
func (s *Service) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := s.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		s.release(id)
	}()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, id, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"combination_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

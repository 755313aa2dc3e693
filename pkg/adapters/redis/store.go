package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/blend/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "blend:combination:"

// Store implements ports.CombinationStore using Redis.
// Records are JSON strings; a sorted set scored by creation time indexes them.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for combinations. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to build a Locker on the same connection.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the combination and indexes it by creation time.
func (s *Store) Save(ctx context.Context, c *domain.Combination) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal combination: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(c.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(c.CreatedAt.UnixMilli()),
		Member: c.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the combination from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Combination, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCombinationNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var c domain.Combination
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal combination: %w", err)
	}
	if c.Terms == nil {
		c.Terms = []domain.Term{}
	}
	return &c, nil
}

// Delete removes the combination and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns combination IDs ordered by creation time.
// With a TTL configured, index entries whose record expired are pruned lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list combinations: %w", err)
	}
	if s.ttl == 0 || len(ids) == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check combination expiry: %w", err)
	}

	live := make([]string, 0, len(ids))
	var expired []any
	for i, id := range ids {
		if checks[i].Val() > 0 {
			live = append(live, id)
		} else {
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired combinations: %w", err)
		}
	}
	return live, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

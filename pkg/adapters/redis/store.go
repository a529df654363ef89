package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/enhance/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.OptionsStore using a single Redis hash.
// Each option is a hash field holding its JSON-encoded value, so HSET
// gives the shallow last-write-wins merge natively.
type Store struct {
	client *backend.Client
	prefix string
	name   string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the options hash, refreshed on every merge.
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

// WithName selects which host's options the store addresses.
// Hosts sharing a name share their options.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
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
		prefix: "enhance:options:",
		name:   "default",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key returns the Redis key of the options hash.
func (s *Store) Key() string {
	return s.prefix + s.name
}

// Merge writes every key of opts into the hash.
func (s *Store) Merge(ctx context.Context, opts domain.Options) error {
	if len(opts) == 0 {
		return nil
	}

	fields := make(map[string]any, len(opts))
	for k, v := range opts {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal option %q: %w", k, err)
		}
		fields[k] = data
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.Key(), fields)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.Key(), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to merge options into redis: %w", err)
	}
	return nil
}

// Snapshot reads the whole hash back. Values round-trip through JSON,
// so numbers come back as float64.
func (s *Store) Snapshot(ctx context.Context) (domain.Options, error) {
	raw, err := s.client.HGetAll(ctx, s.Key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read options from redis: %w", err)
	}

	out := make(domain.Options, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			return nil, fmt.Errorf("failed to unmarshal option %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// Reset deletes the hash.
func (s *Store) Reset(ctx context.Context) error {
	return s.client.Del(ctx, s.Key()).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

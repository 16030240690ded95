package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/journey/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.LedgerStore using Redis.
// Each slot is a string key holding the encoded ledger; a ZSET indexes the slots.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for ledgers.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for ledgers.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "journey:ledger:"

// New creates a new Redis store from a redis:// URL.
func New(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
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

func (s *Store) key(slot string) string {
	return s.prefix + slot
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the ledger to Redis.
func (s *Store) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	data, err := domain.EncodeLedger(ledger)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(slot), data, s.ttl)

	// Score = Now + TTL, or far future when ledgers never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: slot,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the ledger from Redis.
func (s *Store) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	val, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	ledger, err := domain.DecodeLedger(val)
	if err != nil {
		return nil, fmt.Errorf("ledger %q: %w", slot, err)
	}
	return ledger, nil
}

// Clear removes the ledger and its index entry.
func (s *Store) Clear(ctx context.Context, slot string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(slot))
	pipe.ZRem(ctx, s.indexKey(), slot)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear redis ledger: %w", err)
	}
	return nil
}

// List returns live slots, lazily pruning expired ones from the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired ledgers: %w", err)
	}

	slots, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return slots, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

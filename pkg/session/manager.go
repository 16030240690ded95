package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock may be held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates ledger access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.LedgerStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.LedgerStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(slot) after unlocking.
func (m *Manager) acquire(slot string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[slot]
	if !exists {
		entry = &lockEntry{}
		m.locks[slot] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(slot string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[slot]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, slot)
	}
}

// Load reads the ledger of a slot. A missing or unreadable ledger is an empty one.
func (m *Manager) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	var ledger *domain.Ledger
	err := m.WithLock(ctx, slot, func(ctx context.Context) error {
		var err error
		ledger, err = m.load(ctx, slot)
		return err
	})
	return ledger, err
}

// load must run under the slot lock.
func (m *Manager) load(ctx context.Context, slot string) (*domain.Ledger, error) {
	ledger, err := m.store.Load(ctx, slot)
	switch {
	case err == nil:
		return ledger, nil
	case errors.Is(err, domain.ErrLedgerNotFound):
		return domain.NewLedger(), nil
	case errors.Is(err, domain.ErrCorruptLedger):
		m.logger.Warn("Discarding unreadable ledger", "slot", slot, "err", err)
		return domain.NewLedger(), nil
	default:
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
}

// Update runs a read-modify-write cycle on the slot and persists the result.
// When fn returns an error nothing is written.
func (m *Manager) Update(ctx context.Context, slot string, fn func(*domain.Ledger) error) (*domain.Ledger, error) {
	var ledger *domain.Ledger
	err := m.WithLock(ctx, slot, func(ctx context.Context) error {
		current, err := m.load(ctx, slot)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		if err := m.store.Save(ctx, slot, current); err != nil {
			return fmt.Errorf("failed to save ledger: %w", err)
		}
		ledger = current
		return nil
	})
	return ledger, err
}

// Save persists the whole ledger, replacing what is stored.
func (m *Manager) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	return m.WithLock(ctx, slot, func(ctx context.Context) error {
		return m.store.Save(ctx, slot, ledger)
	})
}

// Clear removes the slot from the store.
func (m *Manager) Clear(ctx context.Context, slot string) error {
	return m.WithLock(ctx, slot, func(ctx context.Context) error {
		return m.store.Clear(ctx, slot)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying ledger store.
func (m *Manager) Store() ports.LedgerStore {
	return m.store
}

// WithLock executes a function while holding the lock for the slot.
func (m *Manager) WithLock(ctx context.Context, slot string, fn func(context.Context) error) error {
	entry := m.acquire(slot)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(slot)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, slot, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"slot", slot,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

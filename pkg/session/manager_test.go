package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/adapters/redis"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, slot, ledger)
}

func (s *SlowStore) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, slot)
}

func TestManager_UpdateDoesNotLoseEntries(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := manager.Update(ctx, domain.DefaultSlot, func(l *domain.Ledger) error {
				l.Put(fmt.Sprint(i), domain.NewDualEntry("answer"))
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ledger, err := manager.Load(ctx, domain.DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, 10, ledger.Len(), "every concurrent write must survive")
}

func TestManager_SavingOneStepKeepsTheOthers(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, domain.DefaultSlot, func(l *domain.Ledger) error {
		l.Put("2", domain.NewDualEntry("second"))
		return nil
	})
	require.NoError(t, err)

	_, err = manager.Update(ctx, domain.DefaultSlot, func(l *domain.Ledger) error {
		l.Put("1", domain.NewDualEntry("first"))
		return nil
	})
	require.NoError(t, err)

	ledger, err := manager.Load(ctx, domain.DefaultSlot)
	require.NoError(t, err)
	e2, ok := ledger.Entry("2")
	require.True(t, ok)
	assert.Equal(t, "second", e2.Text)
}

func TestManager_UpdateErrorWritesNothing(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := manager.Update(ctx, "s", func(l *domain.Ledger) error {
		l.Put("1", domain.NewDualEntry("x"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
}

type corruptStore struct{ *memory.Store }

func (c *corruptStore) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	return nil, fmt.Errorf("slot %q: %w", slot, domain.ErrCorruptLedger)
}

func TestManager_CorruptLedgerLoadsEmpty(t *testing.T) {
	manager := session.NewManager(&corruptStore{Store: memory.NewStore()})

	ledger, err := manager.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.True(t, ledger.IsEmpty())
}

type failingStore struct{ *memory.Store }

func (f *failingStore) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	return nil, errors.New("disk on fire")
}

func TestManager_OtherLoadErrorsSurface(t *testing.T) {
	manager := session.NewManager(&failingStore{Store: memory.NewStore()})

	_, err := manager.Load(context.Background(), "s")
	assert.Error(t, err)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(redis.NewLocker(client, "journey:")),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	err = manager.WithLock(ctx, "ledger", func(ctx context.Context) error {
		assert.True(t, mr.Exists("journey:lock:ledger"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("journey:lock:ledger"))
}

package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLedgerStoreContract runs a suite of tests to verify that a LedgerStore implementation
// adheres to the defined interface contract.
func RunLedgerStoreContract(t *testing.T, store LedgerStore) {
	ctx := context.Background()
	slot := "contract-test-slot-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		ledger := domain.NewLedger()
		ledger.Put("1", domain.NewDualEntry("hello"))
		ledger.Put("2", domain.NewPlainEntry("plain"))
		inked := domain.NewDualEntry("").WithMode(domain.ModeInk).WithInk("data:image/png;base64,AA==")
		inked.Extra = map[string]any{"color": "amber"}
		ledger.Put("3", inked)
		ledger.Extra = map[string]any{"theme": "dark"}

		err := store.Save(ctx, slot, ledger)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, ledger.Equal(loaded), "Load(Save(L)) should equal L, got %+v", loaded)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err)
		loaded.Put("1", domain.NewDualEntry("mutated"))

		again, err := store.Load(ctx, slot)
		require.NoError(t, err)
		e, _ := again.Entry("1")
		assert.Equal(t, "hello", e.Text)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		next := domain.NewLedger()
		next.Put("9", domain.NewDualEntry("only"))
		require.NoError(t, store.Save(ctx, slot, next))

		loaded, err := store.Load(ctx, slot)
		require.NoError(t, err)
		assert.Equal(t, []string{"9"}, loaded.StepIDs(), "last write wins, no merge")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+slot)
		assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, slot, domain.NewLedger()))

		err := store.Clear(ctx, slot)
		require.NoError(t, err, "Clear should not return error")

		_, err = store.Load(ctx, slot)
		assert.ErrorIs(t, err, domain.ErrLedgerNotFound, "Load after Clear should return ErrLedgerNotFound")

		assert.NoError(t, store.Clear(ctx, slot), "clearing an absent slot is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := slot + "-1"
		id2 := slot + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewLedger()))
		require.NoError(t, store.Save(ctx, id2, domain.NewLedger()))

		defer func() {
			_ = store.Clear(ctx, id1)
			_ = store.Clear(ctx, id2)
		}()

		slots, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, slots, id1)
		assert.Contains(t, slots, id2)
	})
}

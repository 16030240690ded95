package file_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/journey/pkg/adapters/file"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure adapters implement their ports
var (
	_ ports.LedgerStore = (*file.Store)(nil)
	_ ports.Cursor      = (*file.Cursor)(nil)
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunLedgerStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".journey", "ledgers"), store.BasePath)
}

func TestFileStore_WritesOriginalShape(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	ledger := domain.NewLedger()
	ledger.Put("1", domain.NewDualEntry("hello"))
	require.NoError(t, store.Save(ctx, domain.DefaultSlot, ledger))

	data, err := os.ReadFile(filepath.Join(dir, domain.DefaultSlot+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"step:1"`)
	assert.Contains(t, string(data), `"text": "hello"`)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{oops"), 0644))

	_, err := store.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrCorruptLedger)
}

func TestFileStore_RejectsPathSlots(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, slot := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, store.Save(ctx, slot, domain.NewLedger()), slot)
		_, err := store.Load(ctx, slot)
		assert.Error(t, err, slot)
	}
}

func TestFileStore_ClearMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, store.Clear(context.Background(), "slot"))

	slots, err := store.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFileStore_ConcurrentSavesLeaveValidFile(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := domain.NewLedger()
			l.Put("1", domain.NewDualEntry(string(rune('a'+i))))
			assert.NoError(t, store.Save(ctx, "race", l))
		}(i)
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestFileCursor_Contract(t *testing.T) {
	cursor := file.NewCursor(filepath.Join(t.TempDir(), "state", "cursor"))
	tests.CursorContractTest(t, cursor)
}

func TestFileCursor_RejectsNewlines(t *testing.T) {
	cursor := file.NewCursor(filepath.Join(t.TempDir(), "cursor"))
	assert.Error(t, cursor.Set(context.Background(), "a\nb"))
}

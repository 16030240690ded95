package memory_test

import (
	"testing"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/ports/tests"
)

// Ensure adapters implement their ports
var (
	_ ports.LedgerStore   = (*memory.Store)(nil)
	_ ports.CatalogLoader = (*memory.Loader)(nil)
	_ ports.Cursor        = (*memory.Cursor)(nil)
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunLedgerStoreContract(t, store)
}

func TestMemoryCursor_Contract(t *testing.T) {
	tests.CursorContractTest(t, memory.NewCursor())
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/journey/internal/config"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"id": "1", "title": "Notice", "question": "What did you notice?", "next": "2"},
  {"id": "2", "title": "Decide", "question": "What will you do?"}
]`

// testConfig returns a config over a temporary catalog and data directory.
func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "steps.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	cfg := config.Default()
	cfg.Catalog.Path = path
	cfg.Ledger.Backend = backend
	cfg.Ledger.Dir = filepath.Join(dir, ".journey")
	cfg.Ledger.SQLitePath = filepath.Join(cfg.Ledger.Dir, "journey.db")
	cfg.Autosave.DebounceMS = 10
	return &cfg
}

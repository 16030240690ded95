package tests

import (
	"context"
	"testing"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
)

// CatalogLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.CatalogLoader.
func CatalogLoaderContractTest(t *testing.T, loader ports.CatalogLoader, want domain.Catalog) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadCatalog_Order", func(t *testing.T) {
		got, err := loader.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d steps, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("step %d mismatch.\ngot  %+v\nwant %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("LoadCatalog_Stable", func(t *testing.T) {
		a, err := loader.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("first load: %v", err)
		}
		b, err := loader.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("second load: %v", err)
		}
		for i := range a {
			if a[i].ID != b[i].ID {
				t.Errorf("order changed between loads at %d: %s vs %s", i, a[i].ID, b[i].ID)
			}
		}
	})
}

// CursorContractTest verifies that an adapter complies with ports.Cursor.
// The cursor must start unset.
func CursorContractTest(t *testing.T, cursor ports.Cursor) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Unset", func(t *testing.T) {
		got, err := cursor.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("expected empty cursor, got %q", got)
		}
	})

	t.Run("Set_Get", func(t *testing.T) {
		for _, id := range []string{"1", "step-two", domain.CompleteSentinel} {
			if err := cursor.Set(ctx, id); err != nil {
				t.Fatalf("set %q: %v", id, err)
			}
			got, err := cursor.Get(ctx)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != id {
				t.Errorf("expected %q, got %q", id, got)
			}
		}
	})
}

package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoader_Contract(t *testing.T) {
	steps := domain.Catalog{
		{ID: "1", Title: "A", Question: "Q1", Next: "2"},
		{ID: "2", Title: "B", Question: "Q2"},
	}
	loader, err := memory.NewLoader(steps...)
	require.NoError(t, err)

	tests.CatalogLoaderContractTest(t, loader, steps)
}

func TestMemoryLoader_RejectsBadSteps(t *testing.T) {
	_, err := memory.NewLoader(domain.Step{Title: "no id"})
	assert.Error(t, err)

	_, err = memory.NewLoader(domain.Step{ID: "1"}, domain.Step{ID: "1"})
	assert.ErrorContains(t, err, "duplicate")
}

func TestMemoryLoader_ReturnsCopy(t *testing.T) {
	loader, err := memory.NewLoader(domain.Step{ID: "1", Title: "A"})
	require.NoError(t, err)

	c, _ := loader.LoadCatalog(context.Background())
	c[0].Title = "changed"

	again, _ := loader.LoadCatalog(context.Background())
	assert.Equal(t, "A", again[0].Title)
}

package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/journey/internal/testutils"
	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/ports/tests"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.CatalogLoader = (*Loader)(nil)
	_ ports.Watchable     = (*Loader)(nil)
)

func writeSteps(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestLoader_Contract(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	writeSteps(t, dir, map[string]string{
		"notice.md": `---
id: "1"
title: Notice
question: What keeps repeating?
video_url: https://youtu.be/abc
order: 1
next: "2"
---
The transcript of the first video.`,
		"name.md": `---
id: "2"
title: Name it
question: What would you call it?
prompt_hint: One word is enough.
order: 2
---
`,
	})

	loader := New(loam.NewTypedRepository[StepMetadata](repo))
	tests.CatalogLoaderContractTest(t, loader, domain.Catalog{
		{ID: "1", Title: "Notice", Question: "What keeps repeating?", VideoURL: "https://youtu.be/abc", Transcript: "The transcript of the first video.", Next: "2"},
		{ID: "2", Title: "Name it", Question: "What would you call it?", PromptHint: "One word is enough."},
	})
}

func TestLoader_ImplicitChainByOrder(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	writeSteps(t, dir, map[string]string{
		"b.md": "---\ntitle: Second\norder: 2\n---\n",
		"a.md": "---\ntitle: First\norder: 1\n---\n",
		"z.md": "---\ntitle: Unordered\n---\n",
	})

	c, err := New(loam.NewTypedRepository[StepMetadata](repo)).LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "z"}, c.IDs())
	assert.Equal(t, "b", c[0].Next)
	assert.Equal(t, "z", c[1].Next)
	assert.True(t, c[2].IsLast())
}

func TestLoader_Collision(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	writeSteps(t, dir, map[string]string{
		"one.md": "---\nid: same\ntitle: One\n---\n",
		"two.md": "---\nid: same\ntitle: Two\n---\n",
	})

	_, err := New(loam.NewTypedRepository[StepMetadata](repo)).LoadCatalog(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}

func TestLoader_Empty(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	_, err := New(loam.NewTypedRepository[StepMetadata](repo)).LoadCatalog(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestOrderOf(t *testing.T) {
	for in, want := range map[any]float64{
		nil:     unordered,
		3:       3,
		int64(4): 4,
		2.5:     2.5,
		"7":     7,
		"":      unordered,
	} {
		got, err := orderOf(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}

	_, err := orderOf([]int{1})
	assert.Error(t, err)
	_, err = orderOf("first")
	assert.Error(t, err)
}

func TestLoader_DanglingNext(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	writeSteps(t, dir, map[string]string{
		"a.md": "---\ntitle: A\nnext: missing\n---\n",
	})

	c, err := New(loam.NewTypedRepository[StepMetadata](repo)).LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "missing", c[0].Next)
}

func TestLoader_ReservedID(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	writeSteps(t, dir, map[string]string{
		"complete.md": "---\ntitle: Done\n---\n",
	})

	_, err := New(loam.NewTypedRepository[StepMetadata](repo)).LoadCatalog(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCatalog)
}

package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ImplicitChain(t *testing.T) {
	b := New()

	b.Add("notice").
		Title("Notice").
		Question("What did you notice?").
		Hint("Start anywhere.")

	b.Add("decide").
		Title("Decide").
		Video("https://youtu.be/abc").
		Transcript("Words from the video.")

	b.Add("close").
		Title("Close")

	loader, err := b.Build()
	require.NoError(t, err)

	c, err := loader.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, c, 3)

	assert.Equal(t, []string{"notice", "decide", "close"}, c.IDs())
	assert.Equal(t, "decide", c[0].Next)
	assert.Equal(t, "close", c[1].Next)
	assert.True(t, c[2].IsLast())
	assert.Equal(t, "Start anywhere.", c[0].PromptHint)
	assert.Equal(t, "https://youtu.be/abc", c[1].VideoURL)
	assert.Equal(t, "Words from the video.", c[1].Transcript)
}

func TestBuilder_ExplicitLinks(t *testing.T) {
	b := New()
	b.Add("a").Title("A").Go("c")
	b.Add("b").Title("B").Terminal()
	b.Add("c").Title("C").Go("b")

	c := b.Catalog()
	assert.Equal(t, "c", c[0].Next)
	assert.Equal(t, "", c[1].Next)
	assert.Equal(t, "b", c[2].Next)

	report := catalog.Validate(c)
	assert.True(t, report.OK())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	first := b.Add("a").Title("A")
	again := b.Add("a")

	assert.Same(t, first, again)
	assert.Len(t, b.Catalog(), 1)
	assert.Equal(t, domain.Step{ID: "a", Title: "A"}, again.Build())
}

func TestBuilder_AllowsDanglingNext(t *testing.T) {
	b := New()
	b.Add("a").Title("A").Go("missing")

	_, err := b.Build()
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Validate(b.Catalog()).Warnings)
}

func TestBuilder_RejectsReservedID(t *testing.T) {
	b := New()
	b.Add("complete").Title("Done")

	_, err := b.Build()
	assert.ErrorIs(t, err, catalog.ErrCatalog)
}

func TestBuilder_RejectsEmpty(t *testing.T) {
	_, err := New().Build()
	assert.Error(t, err)
}

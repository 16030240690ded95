package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEntry(t *testing.T) {
	dual := DefaultEntry(EntryDual)
	assert.Equal(t, Entry{Kind: EntryDual, Mode: ModeType}, dual)
	assert.True(t, dual.IsBlank())

	plain := DefaultEntry(EntryPlain)
	assert.Equal(t, Entry{Kind: EntryPlain}, plain)
}

func TestEntry_UpgradeKeepsText(t *testing.T) {
	e := NewPlainEntry("typed before")

	inked := e.WithInk("data:image/png;base64,AA==")
	assert.Equal(t, EntryDual, inked.Kind)
	assert.Equal(t, ModeType, inked.Mode)
	assert.Equal(t, "typed before", inked.Text)
	assert.True(t, inked.HasInk())

	toggled := e.WithMode(ModeInk)
	assert.True(t, toggled.IsInk())
	assert.Equal(t, "typed before", toggled.Text)

	// Original untouched.
	assert.Equal(t, EntryPlain, e.Kind)
}

func TestEntry_CloneIsDeep(t *testing.T) {
	e := NewDualEntry("x")
	e.Extra = map[string]any{"nested": map[string]any{"a": "b"}}

	c := e.Clone()
	c.Extra["nested"].(map[string]any)["a"] = "changed"

	assert.Equal(t, "b", e.Extra["nested"].(map[string]any)["a"])
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("ink")
	assert.NoError(t, err)
	assert.Equal(t, ModeInk, m)

	_, err = ParseMode("draw")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseEntryKind(t *testing.T) {
	k, err := ParseEntryKind("")
	assert.NoError(t, err)
	assert.Equal(t, EntryDual, k)

	k, err = ParseEntryKind(" Plain ")
	assert.NoError(t, err)
	assert.Equal(t, EntryPlain, k)

	_, err = ParseEntryKind("xml")
	assert.Error(t, err)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Catalog{{ID: "1", Title: "A", Next: "2"}, {ID: "2", Title: "B"}}

	first, ok := c.First()
	assert.True(t, ok)
	assert.Equal(t, "1", first.ID)

	s, ok := c.Lookup("2")
	assert.True(t, ok)
	assert.True(t, s.IsLast())

	_, ok = c.Lookup("9")
	assert.False(t, ok)
	assert.Equal(t, -1, c.Index("9"))
	assert.Equal(t, []string{"1", "2"}, c.IDs())

	_, ok = Catalog{}.First()
	assert.False(t, ok)
}

func TestLedgerEqual_Nil(t *testing.T) {
	var nilLedger *Ledger
	assert.True(t, nilLedger.Equal(nil))
	assert.True(t, nilLedger.Equal(NewLedger()))
	assert.True(t, NewLedger().Equal(nil))

	l := NewLedger()
	l.Put("1", NewPlainEntry("x"))
	assert.False(t, nilLedger.Equal(l))
	assert.False(t, l.Equal(nil))
}

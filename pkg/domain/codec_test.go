package domain_test

import (
	"testing"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeLedger_OriginalShape(t *testing.T) {
	data := []byte(`{
		"entries": {
			"step:1": {"mode": "type", "text": "hello", "ink": ""},
			"step:2": {"mode": "ink", "text": "", "ink": "data:image/png;base64,AAAA", "pressure": 0.5},
			"step:3": "plain answer",
			"notes": {"kept": true}
		},
		"theme": "dark"
	}`)

	l, err := domain.DecodeLedger(data)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())

	e1, ok := l.Entry("1")
	require.True(t, ok)
	assert.Equal(t, domain.EntryDual, e1.Kind)
	assert.Equal(t, domain.ModeType, e1.Mode)
	assert.Equal(t, "hello", e1.Text)

	e2, _ := l.Entry("2")
	assert.True(t, e2.IsInk())
	assert.True(t, e2.HasInk())
	assert.Equal(t, 0.5, e2.Extra["pressure"])

	e3, _ := l.Entry("3")
	assert.Equal(t, domain.EntryPlain, e3.Kind)
	assert.Equal(t, "plain answer", e3.Answer())

	assert.Equal(t, "dark", l.Extra["theme"])
	assert.Contains(t, l.ExtraEntries, "notes")
}

func TestEncodeLedger_PreservesUnknownFields(t *testing.T) {
	data := []byte(`{"entries":{"step:1":{"mode":"type","text":"a","ink":"","color":"red"},"meta":1},"version":2}`)

	l, err := domain.DecodeLedger(data)
	require.NoError(t, err)

	// Read-modify-write of a single entry.
	e, _ := l.Entry("1")
	l.Put("1", e.WithText("b"))

	out, err := domain.EncodeLedger(l)
	require.NoError(t, err)

	again, err := domain.DecodeLedger(out)
	require.NoError(t, err)

	e, _ = again.Entry("1")
	assert.Equal(t, "b", e.Text)
	assert.Equal(t, "red", e.Extra["color"])
	assert.Equal(t, float64(2), again.Extra["version"])
	assert.Equal(t, float64(1), again.ExtraEntries["meta"])
}

func TestDecodeLedger_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":        "{not json",
		"array":           "[1,2,3]",
		"string":          `"hello"`,
		"entries array":   `{"entries": [1]}`,
		"entries string":  `{"entries": "x"}`,
		"truncated":       `{"entries": {"step:1": "a"`,
		"trailing commas": `{"entries": {},}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.DecodeLedger([]byte(input))
			assert.ErrorIs(t, err, domain.ErrCorruptLedger)

			l := domain.DecodeLedgerLenient([]byte(input))
			assert.True(t, l.IsEmpty())
		})
	}
}

func TestDecodeLedger_EmptyInputs(t *testing.T) {
	for _, input := range []string{"", "   ", "null", "{}", `{"entries": null}`} {
		l, err := domain.DecodeLedger([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, 0, l.Len(), input)
	}
}

func TestDecodeLedger_UndecodableEntryIsKeptVerbatim(t *testing.T) {
	l, err := domain.DecodeLedger([]byte(`{"entries":{"step:1":42,"step:2":{"text":{"a":1}}}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.Len(t, l.ExtraEntries, 2)

	out, err := domain.EncodeLedger(l)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"step:1":42`)
}

func TestDecodeLedgerLenient_GarbageNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		garbage := rapid.SliceOf(rapid.Byte()).Draw(t, "garbage")
		// A leading '#' can never start valid JSON.
		data := append([]byte("#"), garbage...)

		l := domain.DecodeLedgerLenient(data)
		if l == nil || !l.IsEmpty() {
			t.Fatalf("expected empty ledger for %q", data)
		}
	})
}

func entryGen() *rapid.Generator[domain.Entry] {
	return rapid.Custom(func(t *rapid.T) domain.Entry {
		text := rapid.String().Draw(t, "text")
		if rapid.Bool().Draw(t, "plain") {
			return domain.NewPlainEntry(text)
		}
		e := domain.NewDualEntry(text)
		e.Mode = rapid.SampledFrom([]domain.Mode{domain.ModeType, domain.ModeInk}).Draw(t, "mode")
		e.Ink = rapid.SampledFrom([]string{"", "data:image/png;base64,iVBORw0KGgo="}).Draw(t, "ink")
		if rapid.Bool().Draw(t, "extra") {
			e.Extra = map[string]any{"color": rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "color")}
		}
		return e
	})
}

func TestLedgerCodec_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z0-9-]{1,6}`), func(s string) string { return s }).Draw(t, "ids")
		l := domain.NewLedger()
		for _, id := range ids {
			l.Put(id, entryGen().Draw(t, "entry"))
		}

		data, err := domain.EncodeLedger(l)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		back, err := domain.DecodeLedger(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !l.Equal(back) {
			t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", l, back)
		}
	})
}

func TestDecodeLedger_FieldNamesAreCaseSensitive(t *testing.T) {
	l, err := domain.DecodeLedger([]byte(`{"entries": {"step:1": {"mode": "type", "Text": "only caps"}}}`))
	require.NoError(t, err)

	e, ok := l.Entry("1")
	require.True(t, ok)
	assert.Empty(t, e.Text)
	assert.Equal(t, "only caps", e.Extra["Text"])

	data, err := domain.EncodeLedger(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries": {"step:1": {"mode": "type", "text": "", "ink": "", "Text": "only caps"}}}`, string(data))
}

func TestDecodeLedger_NonStringFieldIsNotConverted(t *testing.T) {
	in := `{"entries": {"step:1": {"mode": "type", "text": 42}}}`
	l, err := domain.DecodeLedger([]byte(in))
	require.NoError(t, err)

	_, ok := l.Entry("1")
	assert.False(t, ok)

	data, err := domain.EncodeLedger(l)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(data))
}

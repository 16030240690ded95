package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// dualFields is the persisted shape of a dual-mode entry.
type dualFields struct {
	Mode string `mapstructure:"mode"`
	Text string `mapstructure:"text"`
	Ink  string `mapstructure:"ink"`
}

// EncodeLedger serializes a ledger into its persisted form:
//
//	{"entries": {"step:<id>": <entry>, ...}, <unknown fields>...}
//
// Plain entries are written as strings, dual entries as objects.
func EncodeLedger(l *Ledger) ([]byte, error) {
	if l == nil {
		l = NewLedger()
	}

	top := make(map[string]any, len(l.Extra)+1)
	for k, v := range l.Extra {
		top[k] = v
	}

	entries := make(map[string]any, len(l.Entries)+len(l.ExtraEntries))
	for k, v := range l.ExtraEntries {
		entries[k] = v
	}
	for id, e := range l.Entries {
		entries[EntryKey(id)] = encodeEntry(e)
	}
	top[EntriesField] = entries

	data, err := json.Marshal(top)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return data, nil
}

func encodeEntry(e Entry) any {
	if e.Kind == EntryPlain {
		return e.Text
	}
	m := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		m[k] = v
	}
	if e.Mode != "" {
		m[FieldMode] = string(e.Mode)
	}
	m[FieldText] = e.Text
	m[FieldInk] = e.Ink
	return m
}

// DecodeLedger parses persisted ledger bytes.
// Empty input and a JSON null decode to an empty ledger. Anything that is not a JSON
// object with an optional "entries" object fails with ErrCorruptLedger.
func DecodeLedger(data []byte) (*Ledger, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewLedger(), nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLedger, err)
	}
	if raw == nil {
		return NewLedger(), nil
	}

	top, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrCorruptLedger, raw)
	}

	l := NewLedger()
	for k, v := range top {
		if k == EntriesField {
			continue
		}
		if l.Extra == nil {
			l.Extra = make(map[string]any)
		}
		l.Extra[k] = v
	}

	entriesRaw := top[EntriesField]
	if entriesRaw == nil {
		return l, nil
	}
	entries, ok := entriesRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want object", ErrCorruptLedger, EntriesField, entriesRaw)
	}

	for key, v := range entries {
		id, isStep := strings.CutPrefix(key, EntryKeyPrefix)
		if isStep && id != "" {
			if e, ok := decodeEntry(v); ok {
				l.Entries[id] = e
				continue
			}
		}
		if l.ExtraEntries == nil {
			l.ExtraEntries = make(map[string]any)
		}
		l.ExtraEntries[key] = v
	}

	return l, nil
}

// DecodeLedgerLenient is DecodeLedger that never fails: corrupt input yields an empty ledger.
func DecodeLedgerLenient(data []byte) *Ledger {
	l, err := DecodeLedger(data)
	if err != nil {
		return NewLedger()
	}
	return l
}

func decodeEntry(v any) (Entry, bool) {
	switch t := v.(type) {
	case string:
		return NewPlainEntry(t), true
	case map[string]any:
		var fields dualFields
		var md mapstructure.Metadata
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:   &fields,
			Metadata: &md,
			// Keys are case-sensitive: "Text" is an unknown field, not the answer.
			MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
		})
		if err != nil {
			return Entry{}, false
		}
		// A known field with a non-string value keeps the whole entry verbatim.
		if err := dec.Decode(t); err != nil {
			return Entry{}, false
		}

		e := Entry{
			Kind: EntryDual,
			Mode: Mode(fields.Mode),
			Text: fields.Text,
			Ink:  fields.Ink,
		}
		for _, k := range md.Unused {
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}
			e.Extra[k] = t[k]
		}
		return e, true
	default:
		return Entry{}, false
	}
}

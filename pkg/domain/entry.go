package domain

import (
	"fmt"
	"reflect"
	"strings"
)

// EntryKind discriminates the two answer schemas.
type EntryKind string

const (
	// EntryPlain is a single string answer.
	EntryPlain EntryKind = "plain"
	// EntryDual is a {mode, text, ink} answer.
	EntryDual EntryKind = "dual"
)

// Mode is the input mode of a dual-mode entry.
type Mode string

const (
	ModeType Mode = "type"
	ModeInk  Mode = "ink"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeType, ModeInk:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ParseEntryKind validates a schema name. Empty means EntryDual.
func ParseEntryKind(s string) (EntryKind, error) {
	switch EntryKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", EntryDual:
		return EntryDual, nil
	case EntryPlain:
		return EntryPlain, nil
	}
	return "", fmt.Errorf("unknown entry schema %q (want %q or %q)", s, EntryPlain, EntryDual)
}

// Entry is the answer captured for one step.
//
// A plain entry only uses Text. A dual entry uses Mode, Text and Ink, and keeps any
// fields it does not know about in Extra so that a read-modify-write does not drop them.
type Entry struct {
	Kind  EntryKind      `json:"kind"`
	Mode  Mode           `json:"mode,omitempty"`
	Text  string         `json:"text"`
	Ink   string         `json:"ink,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// NewPlainEntry creates a plain entry.
func NewPlainEntry(text string) Entry {
	return Entry{Kind: EntryPlain, Text: text}
}

// NewDualEntry creates a dual-mode entry in typing mode.
func NewDualEntry(text string) Entry {
	return Entry{Kind: EntryDual, Mode: ModeType, Text: text}
}

// DefaultEntry returns the empty entry materialized on the first visit of a step.
func DefaultEntry(kind EntryKind) Entry {
	if kind == EntryPlain {
		return NewPlainEntry("")
	}
	return NewDualEntry("")
}

// Answer extracts the text of the entry. Ink is never transcribed.
func (e Entry) Answer() string {
	return e.Text
}

// IsInk reports whether the entry is in ink mode.
func (e Entry) IsInk() bool {
	return e.Kind == EntryDual && e.Mode == ModeInk
}

// HasInk reports whether the entry holds a drawing.
func (e Entry) HasInk() bool {
	return e.Ink != ""
}

// IsBlank reports whether the entry has neither non-whitespace text nor ink.
func (e Entry) IsBlank() bool {
	return strings.TrimSpace(e.Text) == "" && e.Ink == ""
}

// WithText returns a copy of the entry with the given text.
func (e Entry) WithText(text string) Entry {
	out := e.Clone()
	out.Text = text
	return out
}

// WithMode returns a copy of the entry in the given mode.
// A plain entry is upgraded to the dual schema, keeping its text.
func (e Entry) WithMode(mode Mode) Entry {
	out := e.upgrade()
	out.Mode = mode
	return out
}

// WithInk returns a copy of the entry holding the given encoded image.
// A plain entry is upgraded to the dual schema. An empty ink clears the drawing.
func (e Entry) WithInk(ink string) Entry {
	out := e.upgrade()
	out.Ink = ink
	return out
}

func (e Entry) upgrade() Entry {
	out := e.Clone()
	if out.Kind != EntryDual {
		out.Kind = EntryDual
		out.Mode = ModeType
	}
	if out.Mode == "" {
		out.Mode = ModeType
	}
	return out
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Extra = cloneMap(e.Extra)
	return out
}

// Equal reports whether two entries carry the same data.
func (e Entry) Equal(o Entry) bool {
	if e.Kind != o.Kind || e.Mode != o.Mode || e.Text != o.Text || e.Ink != o.Ink {
		return false
	}
	if len(e.Extra) == 0 && len(o.Extra) == 0 {
		return true
	}
	return reflect.DeepEqual(e.Extra, o.Extra)
}

// cloneAny deep-copies JSON-shaped values (maps, slices, scalars).
func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneAny(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneAny(val)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return cloneAny(m).(map[string]any)
}

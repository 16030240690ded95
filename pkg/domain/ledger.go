package domain

import "sort"

// Ledger maps step ids to their entries.
//
// Fields the engine does not understand are kept verbatim: Extra holds unknown
// top-level fields and ExtraEntries holds members of the entries object that are not
// step entries. Both survive a load/save cycle.
type Ledger struct {
	Entries      map[string]Entry `json:"entries"`
	Extra        map[string]any   `json:"extra,omitempty"`
	ExtraEntries map[string]any   `json:"extra_entries,omitempty"`
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Entries: make(map[string]Entry)}
}

// Entry returns the entry for a step id.
func (l *Ledger) Entry(stepID string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	e, ok := l.Entries[stepID]
	return e, ok
}

// Put stores the entry for a step id, replacing any previous one.
func (l *Ledger) Put(stepID string, e Entry) {
	if l.Entries == nil {
		l.Entries = make(map[string]Entry)
	}
	l.Entries[stepID] = e.Clone()
}

// Len returns the number of step entries.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// IsEmpty reports whether the ledger holds no data at all.
func (l *Ledger) IsEmpty() bool {
	return l == nil || (len(l.Entries) == 0 && len(l.Extra) == 0 && len(l.ExtraEntries) == 0)
}

// StepIDs returns the ids of the stored entries, sorted.
// Use the Catalog for authored order.
func (l *Ledger) StepIDs() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, 0, len(l.Entries))
	for id := range l.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return NewLedger()
	}
	out := &Ledger{
		Entries:      make(map[string]Entry, len(l.Entries)),
		Extra:        cloneMap(l.Extra),
		ExtraEntries: cloneMap(l.ExtraEntries),
	}
	for id, e := range l.Entries {
		out.Entries[id] = e.Clone()
	}
	return out
}

// Equal reports whether two ledgers carry the same data. A nil ledger equals an empty one.
func (l *Ledger) Equal(o *Ledger) bool {
	if l.Len() != o.Len() {
		return false
	}
	if l.Len() > 0 {
		for id, e := range l.Entries {
			oe, ok := o.Entries[id]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
	}
	return Entry{Extra: extraOf(l)}.Equal(Entry{Extra: extraOf(o)}) &&
		Entry{Extra: extraEntriesOf(l)}.Equal(Entry{Extra: extraEntriesOf(o)})
}

func extraOf(l *Ledger) map[string]any {
	if l == nil {
		return nil
	}
	return l.Extra
}

func extraEntriesOf(l *Ledger) map[string]any {
	if l == nil {
		return nil
	}
	return l.ExtraEntries
}

// EntryKey returns the persisted key of a step entry.
func EntryKey(stepID string) string {
	return EntryKeyPrefix + stepID
}

package domain

const (
	// CompleteSentinel is the cursor value that marks the end of the journey.
	CompleteSentinel = "complete"

	// DefaultSlot is the name of the persisted ledger slot.
	DefaultSlot = "ni_ledger_v2"

	// EntryKeyPrefix prefixes step ids in the persisted "entries" object.
	EntryKeyPrefix = "step:"

	// EntriesField is the top-level field holding the entries object.
	EntriesField = "entries"
)

// Field names of a dual-mode entry as persisted.
const (
	FieldMode = "mode"
	FieldText = "text"
	FieldInk  = "ink"
)

// Package runtime holds the step-ledger state machine: cursor navigation, entry
// materialization, read-modify-write saves, debounced autosave and artifact compilation.
package runtime

package domain

import "errors"

// ErrLedgerNotFound is returned when a ledger slot does not exist in the store.
var ErrLedgerNotFound = errors.New("ledger not found")

// ErrCorruptLedger is returned when persisted ledger bytes cannot be decoded.
var ErrCorruptLedger = errors.New("corrupt ledger")

// ErrEmptyCatalog is returned when a catalog has no steps.
var ErrEmptyCatalog = errors.New("catalog has no steps")

// ErrUnknownStep is returned by strict lookups of a step id absent from the catalog.
var ErrUnknownStep = errors.New("unknown step")

// ErrInvalidMode is returned when an entry mode is neither "type" nor "ink".
var ErrInvalidMode = errors.New("invalid entry mode")

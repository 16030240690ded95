package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepVisit    EventType = "step_visit"
	EventEntrySaved   EventType = "entry_saved"
	EventStepAdvance  EventType = "step_advance"
	EventLedgerReset  EventType = "ledger_reset"
	EventArtifactMade EventType = "artifact_compiled"
)

// SaveReason tells why an entry was persisted.
type SaveReason string

const (
	SaveExplicit SaveReason = "save"
	SaveAutosave SaveReason = "autosave"
	SaveInk      SaveReason = "ink"
	SaveMode     SaveReason = "mode"
	SaveNext     SaveReason = "next"
	SaveVisit    SaveReason = "visit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Slot      string    `json:"slot"`
}

// StepEvent reports a visit or a forward transition.
type StepEvent struct {
	EventBase
	StepID string `json:"step_id"`
	NextID string `json:"next_id,omitempty"`
}

// EntryEvent reports a persisted entry.
type EntryEvent struct {
	EventBase
	StepID string     `json:"step_id"`
	Reason SaveReason `json:"reason"`
	Mode   Mode       `json:"mode,omitempty"`
	Chars  int        `json:"chars"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepVisit   func(context.Context, *StepEvent)
	OnStepAdvance func(context.Context, *StepEvent)
	OnEntrySaved  func(context.Context, *EntryEvent)
	OnReset       func(context.Context, *EventBase)
	OnCompile     func(context.Context, *EventBase)
}

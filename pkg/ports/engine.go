package ports

import (
	"context"

	"github.com/aretw0/journey/pkg/domain"
)

// Journal defines the engine surface used by transport adapters (HTTP, MCP).
type Journal interface {
	// Catalog returns the loaded steps in authored order.
	Catalog() domain.Catalog

	// Current resolves the cursor and materializes the entry of the current step.
	Current(ctx context.Context) (domain.StepView, error)

	// Visit resolves a step id (falling back to the first step) and materializes its entry.
	Visit(ctx context.Context, stepID string) (domain.StepView, error)

	// SaveText persists the text answer of a step.
	SaveText(ctx context.Context, stepID, text string, reason domain.SaveReason) (domain.Entry, error)

	// SetMode switches a step between typing and ink.
	SetMode(ctx context.Context, stepID string, mode domain.Mode) (domain.Entry, error)

	// SetInk stores (or clears, when empty) the drawing of a step.
	SetInk(ctx context.Context, stepID, ink string) (domain.Entry, error)

	// Next saves the step unconditionally and moves the cursor forward.
	// A non-nil text replaces the answer unless the entry is in ink mode.
	Next(ctx context.Context, stepID string, text *string) (string, error)

	// Restart clears the ledger and moves the cursor back to the first step.
	Restart(ctx context.Context) (string, error)

	// Compile renders the artifact from the catalog and the current ledger.
	Compile(ctx context.Context) (string, error)

	// Ledger returns the persisted ledger; never fails on missing or corrupt data.
	Ledger(ctx context.Context) (*domain.Ledger, error)
}

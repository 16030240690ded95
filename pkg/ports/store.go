package ports

import (
	"context"

	"github.com/aretw0/journey/pkg/domain"
)

// LedgerStore defines the interface for persisting the answer ledger.
// A store holds named slots; each Save overwrites the whole slot (last write wins).
type LedgerStore interface {
	// Save persists the full ledger snapshot under the slot.
	Save(ctx context.Context, slot string, ledger *domain.Ledger) error

	// Load retrieves the ledger of a slot.
	// Returns domain.ErrLedgerNotFound if the slot does not exist and
	// domain.ErrCorruptLedger if its contents cannot be decoded.
	Load(ctx context.Context, slot string) (*domain.Ledger, error)

	// Clear removes the slot. Clearing an absent slot is not an error.
	Clear(ctx context.Context, slot string) error

	// List returns the slots currently present.
	List(ctx context.Context) ([]string, error)
}

package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
)

// Navigator resolves the current step from the cursor and moves it forward.
// There is no backwards move: only Advance and Reset change the position.
type Navigator struct {
	catalog domain.Catalog
	cursor  ports.Cursor
}

// NewNavigator binds a catalog to a cursor. The catalog must not be empty.
func NewNavigator(catalog domain.Catalog, cursor ports.Cursor) (*Navigator, error) {
	if len(catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return &Navigator{catalog: catalog, cursor: cursor}, nil
}

// CurrentStepID returns the cursor value, or the first step id when the cursor is unset.
// The value may be domain.CompleteSentinel or an id absent from the catalog.
func (n *Navigator) CurrentStepID(ctx context.Context) (string, error) {
	id, err := n.cursor.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read cursor: %w", err)
	}
	if id == "" {
		return n.catalog[0].ID, nil
	}
	return id, nil
}

// Goto writes a step id or the sentinel to the cursor.
func (n *Navigator) Goto(ctx context.Context, id string) error {
	if err := n.cursor.Set(ctx, id); err != nil {
		return fmt.Errorf("failed to write cursor: %w", err)
	}
	return nil
}

// Reset moves the cursor back to the first step.
func (n *Navigator) Reset(ctx context.Context) (string, error) {
	first := n.catalog[0].ID
	return first, n.Goto(ctx, first)
}

// ResolveStep looks up a step by id. Unknown ids resolve to the first step so that a
// stale or hand-edited cursor never breaks the flow. The catalog must not be empty.
func ResolveStep(id string, catalog domain.Catalog) domain.Step {
	if s, ok := catalog.Lookup(id); ok {
		return s
	}
	return catalog[0]
}

// Advance returns the id that follows step, or domain.CompleteSentinel.
func Advance(step domain.Step) string {
	if step.Next == "" {
		return domain.CompleteSentinel
	}
	return step.Next
}

package ports

import "context"

// Cursor holds the current position of the journey: a step id or domain.CompleteSentinel.
// It is the bookmarkable part of the session state.
type Cursor interface {
	// Get returns the stored position, or "" when none was set.
	Get(ctx context.Context) (string, error)

	// Set stores a new position.
	Set(ctx context.Context, stepID string) error
}

package memory

import (
	"context"
	"sync"
)

// Cursor implements ports.Cursor in memory.
type Cursor struct {
	mu  sync.RWMutex
	pos string
}

// NewCursor creates an unset cursor.
func NewCursor() *Cursor {
	return &Cursor{}
}

// Get returns the current position.
func (c *Cursor) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos, nil
}

// Set stores a new position.
func (c *Cursor) Set(ctx context.Context, stepID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = stepID
	return nil
}

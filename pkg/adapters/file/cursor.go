package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cursor implements ports.Cursor as a one-line text file.
type Cursor struct {
	Path string
}

// NewCursor creates a file cursor. If path is empty, it defaults to ".journey/cursor".
func NewCursor(path string) *Cursor {
	if path == "" {
		path = filepath.Join(".journey", "cursor")
	}
	return &Cursor{Path: path}
}

// Get returns the stored position, or "" when the file does not exist.
func (c *Cursor) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read cursor: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set stores a new position.
func (c *Cursor) Set(ctx context.Context, stepID string) error {
	if strings.ContainsAny(stepID, "\r\n") {
		return fmt.Errorf("invalid cursor value %q", stepID)
	}
	return writeFileAtomic(c.Path, []byte(stepID+"\n"))
}

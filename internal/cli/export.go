package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// Status messages shown after an export.
const (
	StatusCopied     = "Copied."
	StatusCopyFailed = "Copy failed - select and copy manually."
	StatusSaved      = "Saved locally."
)

// Exporter moves the compiled artifact out of the journal. Failures never touch the ledger.
type Exporter struct {
	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
	// Filename is the name used by Download.
	Filename string
}

// NewExporter returns an Exporter on the system clipboard.
func NewExporter(filename string) *Exporter {
	write := clipboard.WriteAll
	if clipboard.Unsupported {
		write = func(string) error { return errors.New("no clipboard utility found") }
	}
	return &Exporter{Clipboard: write, Filename: filename}
}

// Copy puts the artifact on the clipboard and returns the status line to show.
func (e *Exporter) Copy(text string) (string, error) {
	if e.Clipboard == nil {
		return StatusCopyFailed, errors.New("no clipboard configured")
	}
	if err := e.Clipboard(text); err != nil {
		return StatusCopyFailed, err
	}
	return StatusCopied, nil
}

// Download writes the artifact into dir and returns the file path.
func (e *Exporter) Download(dir, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, e.Filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

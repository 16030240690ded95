package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/journey/pkg/domain"
)

// Editor is the editing session of one step. It owns the text buffer and the
// autosave timer, and flushes before navigating away.
type Editor struct {
	engine   *Engine
	stepID   string
	autosave *Autosaver

	mu   sync.Mutex
	text string
}

// Edit opens an editing session on a step, seeded with the text of its entry.
func (e *Engine) Edit(view domain.StepView, debounce time.Duration) *Editor {
	ed := &Editor{
		engine: e,
		stepID: view.Step.ID,
		text:   view.Entry.Text,
	}
	ed.autosave = NewAutosaver(debounce, func(ctx context.Context, text string) error {
		_, err := e.SaveText(ctx, ed.stepID, text, domain.SaveAutosave)
		return err
	}, WithAutosaveLogger(e.logger))
	return ed
}

// StepID returns the step being edited.
func (ed *Editor) StepID() string {
	return ed.stepID
}

// Text returns the current buffer.
func (ed *Editor) Text() string {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.text
}

// Type replaces the buffer and schedules an autosave.
func (ed *Editor) Type(text string) {
	ed.mu.Lock()
	ed.text = text
	ed.mu.Unlock()
	ed.autosave.Trigger(text)
}

// Append adds a line to the buffer and schedules an autosave.
func (ed *Editor) Append(line string) {
	ed.mu.Lock()
	if ed.text == "" {
		ed.text = line
	} else {
		ed.text += "\n" + line
	}
	text := ed.text
	ed.mu.Unlock()
	ed.autosave.Trigger(text)
}

// Save persists the buffer now.
func (ed *Editor) Save(ctx context.Context) (domain.Entry, error) {
	ed.autosave.Stop()
	return ed.engine.SaveText(ctx, ed.stepID, ed.Text(), domain.SaveExplicit)
}

// Pending reports whether an autosave is scheduled.
func (ed *Editor) Pending() bool {
	return ed.autosave.Pending()
}

// Flush saves any pending autosave synchronously.
func (ed *Editor) Flush(ctx context.Context) error {
	return ed.autosave.Flush(ctx)
}

// Next flushes, performs the unconditional save and advances the cursor.
func (ed *Editor) Next(ctx context.Context) (string, error) {
	if err := ed.autosave.Flush(ctx); err != nil {
		return "", err
	}
	text := ed.Text()
	return ed.engine.Next(ctx, ed.stepID, &text)
}

// Close discards pending autosave work. Call Flush first to keep it.
func (ed *Editor) Close() {
	ed.autosave.Stop()
}

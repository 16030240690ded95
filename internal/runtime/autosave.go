package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/journey/internal/logging"
)

// DefaultDebounce is the quiet interval after which typed text is saved.
const DefaultDebounce = 250 * time.Millisecond

// SaveFunc persists the latest text of the entry being edited.
type SaveFunc func(ctx context.Context, text string) error

// Autosaver collapses bursts of edits into one save after a quiet interval.
//
// Trigger resets the timer; it never cancels with an error. Flush saves synchronously
// whatever is pending and is what navigation must call before leaving the step.
type Autosaver struct {
	delay  time.Duration
	save   SaveFunc
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	text    string
	gen     uint64

	// saveMu orders timer saves and flushes so that Flush returns after any in-flight save.
	saveMu sync.Mutex
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithAutosaveLogger sets the logger used for background save failures.
func WithAutosaveLogger(logger *slog.Logger) AutosaveOption {
	return func(a *Autosaver) {
		a.logger = logger
	}
}

// NewAutosaver creates an Autosaver. A non-positive delay means DefaultDebounce.
func NewAutosaver(delay time.Duration, save SaveFunc, opts ...AutosaveOption) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	a := &Autosaver{
		delay:  delay,
		save:   save,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Delay returns the debounce interval.
func (a *Autosaver) Delay() time.Duration {
	return a.delay
}

// Trigger records text as the latest value and restarts the quiet interval.
func (a *Autosaver) Trigger(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.text = text
	a.pending = true
	a.gen++
	gen := a.gen

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		a.fire(gen)
	})
}

// Pending reports whether an edit is waiting to be saved.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func (a *Autosaver) fire(gen uint64) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	text, ok := a.take(gen)
	if !ok {
		return
	}
	if err := a.save(context.Background(), text); err != nil {
		a.logger.Warn("Autosave failed", "err", err)
	}
}

// take claims the pending text. A stale generation means a newer Trigger or a Flush won.
func (a *Autosaver) take(gen uint64) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.pending || (gen != 0 && gen != a.gen) {
		return "", false
	}
	a.pending = false
	return a.text, true
}

// Flush stops the timer and saves the pending text, if any, before returning.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	text, ok := a.take(0)
	if !ok {
		return nil
	}
	return a.save(ctx, text)
}

// Stop discards pending work without saving.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = false
	a.gen++
}

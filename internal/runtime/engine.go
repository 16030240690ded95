package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/session"
)

// Engine runs the step ledger: every mutation is a locked read-modify-write of the
// whole slot, so saving one step never drops another step's entry.
type Engine struct {
	catalog  domain.Catalog
	sessions *session.Manager
	nav      *Navigator

	slot         string
	schema       domain.EntryKind
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	clock        func() time.Time
	artifactOpts []artifact.Option
}

// EngineOption configures the runtime Engine.
type EngineOption func(*Engine)

// WithSlot sets the persisted slot name.
func WithSlot(slot string) EngineOption {
	return func(e *Engine) {
		if slot != "" {
			e.slot = slot
		}
	}
}

// WithEntrySchema selects the shape of entries created on first visit.
func WithEntrySchema(kind domain.EntryKind) EngineOption {
	return func(e *Engine) {
		e.schema = kind
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source for events and the artifact date.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithArtifactOptions sets the options passed to artifact.Compile.
func WithArtifactOptions(opts ...artifact.Option) EngineOption {
	return func(e *Engine) {
		e.artifactOpts = append(e.artifactOpts, opts...)
	}
}

// NewEngine creates the runtime over a catalog, a session manager and a cursor navigator.
func NewEngine(catalog domain.Catalog, sessions *session.Manager, nav *Navigator, opts ...EngineOption) (*Engine, error) {
	if len(catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	e := &Engine{
		catalog:  catalog,
		sessions: sessions,
		nav:      nav,
		slot:     domain.DefaultSlot,
		schema:   domain.EntryDual,
		logger:   logging.NewNop(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the steps in authored order.
func (e *Engine) Catalog() domain.Catalog {
	return e.catalog
}

// Slot returns the persisted slot name.
func (e *Engine) Slot() string {
	return e.slot
}

// Step is a strict lookup: unknown ids return domain.ErrUnknownStep.
func (e *Engine) Step(id string) (domain.Step, error) {
	s, ok := e.catalog.Lookup(id)
	if !ok {
		return domain.Step{}, fmt.Errorf("%w: %q", domain.ErrUnknownStep, id)
	}
	return s, nil
}

// Cursor returns the raw cursor position (first step id when unset).
func (e *Engine) Cursor(ctx context.Context) (string, error) {
	return e.nav.CurrentStepID(ctx)
}

// Current visits the step under the cursor. At the sentinel it returns a Complete view.
func (e *Engine) Current(ctx context.Context) (domain.StepView, error) {
	id, err := e.nav.CurrentStepID(ctx)
	if err != nil {
		return domain.StepView{}, err
	}
	if id == domain.CompleteSentinel {
		return domain.StepView{Complete: true, Total: len(e.catalog), Position: len(e.catalog)}, nil
	}
	return e.Visit(ctx, id)
}

// Visit resolves id (unknown ids fall back to the first step) and materializes its
// entry. A step visited for the first time gets a default entry persisted at once.
func (e *Engine) Visit(ctx context.Context, id string) (domain.StepView, error) {
	step := ResolveStep(id, e.catalog)
	if step.ID != id {
		e.logger.Debug("Unknown step id, falling back to first step", "requested", id, "step_id", step.ID)
	}

	var entry domain.Entry
	var created bool
	_, err := e.sessions.Update(ctx, e.slot, func(l *domain.Ledger) error {
		existing, ok := l.Entry(step.ID)
		if ok {
			entry = existing
			return nil
		}
		entry = domain.DefaultEntry(e.schema)
		l.Put(step.ID, entry)
		created = true
		return nil
	})
	if err != nil {
		return domain.StepView{}, err
	}

	if created {
		e.emitEntrySaved(ctx, step.ID, domain.SaveVisit, entry)
	}
	if e.hooks.OnStepVisit != nil {
		e.hooks.OnStepVisit(ctx, &domain.StepEvent{EventBase: e.event(domain.EventStepVisit), StepID: step.ID})
	}

	return domain.StepView{
		Step:     step,
		Entry:    entry,
		Position: e.catalog.Index(step.ID) + 1,
		Total:    len(e.catalog),
	}, nil
}

// SaveText replaces the text of a step's entry.
func (e *Engine) SaveText(ctx context.Context, id, text string, reason domain.SaveReason) (domain.Entry, error) {
	return e.mutate(ctx, id, reason, func(entry domain.Entry) domain.Entry {
		return entry.WithText(text)
	})
}

// SetMode switches a step between typing and ink. Text and ink are both kept.
func (e *Engine) SetMode(ctx context.Context, id string, mode domain.Mode) (domain.Entry, error) {
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return domain.Entry{}, err
	}
	return e.mutate(ctx, id, domain.SaveMode, func(entry domain.Entry) domain.Entry {
		return entry.WithMode(mode)
	})
}

// SetInk stores the encoded drawing of a step; an empty ink clears it.
func (e *Engine) SetInk(ctx context.Context, id, ink string) (domain.Entry, error) {
	return e.mutate(ctx, id, domain.SaveInk, func(entry domain.Entry) domain.Entry {
		return entry.WithInk(ink)
	})
}

// ClearInk removes the drawing of a step.
func (e *Engine) ClearInk(ctx context.Context, id string) (domain.Entry, error) {
	return e.SetInk(ctx, id, "")
}

// Next performs the unconditional save of the step and moves the cursor forward.
// A non-nil text replaces the answer unless the entry is in ink mode, in which case the
// typed text is not what the user was looking at and is left alone.
func (e *Engine) Next(ctx context.Context, id string, text *string) (string, error) {
	step := ResolveStep(id, e.catalog)

	_, err := e.mutate(ctx, step.ID, domain.SaveNext, func(entry domain.Entry) domain.Entry {
		if text != nil && !entry.IsInk() {
			return entry.WithText(*text)
		}
		return entry
	})
	if err != nil {
		return "", err
	}

	next := Advance(step)
	if err := e.nav.Goto(ctx, next); err != nil {
		return "", err
	}

	e.logger.Debug("Advanced", "step_id", step.ID, "next", next)
	if e.hooks.OnStepAdvance != nil {
		e.hooks.OnStepAdvance(ctx, &domain.StepEvent{EventBase: e.event(domain.EventStepAdvance), StepID: step.ID, NextID: next})
	}
	return next, nil
}

// Restart clears the whole ledger and moves the cursor back to the first step.
func (e *Engine) Restart(ctx context.Context) (string, error) {
	if err := e.sessions.Clear(ctx, e.slot); err != nil {
		return "", fmt.Errorf("failed to clear ledger: %w", err)
	}
	first, err := e.nav.Reset(ctx)
	if err != nil {
		return "", err
	}

	e.logger.Info("Ledger reset", "slot", e.slot)
	if e.hooks.OnReset != nil {
		base := e.event(domain.EventLedgerReset)
		e.hooks.OnReset(ctx, &base)
	}
	return first, nil
}

// Ledger loads the persisted ledger. Missing or corrupt data reads as empty.
func (e *Engine) Ledger(ctx context.Context) (*domain.Ledger, error) {
	return e.sessions.Load(ctx, e.slot)
}

// Compile renders the artifact for the current ledger.
func (e *Engine) Compile(ctx context.Context) (string, error) {
	ledger, err := e.Ledger(ctx)
	if err != nil {
		return "", err
	}

	opts := append([]artifact.Option{artifact.WithClock(e.clock)}, e.artifactOpts...)
	text := artifact.Compile(e.catalog, ledger, opts...)

	if e.hooks.OnCompile != nil {
		base := e.event(domain.EventArtifactMade)
		e.hooks.OnCompile(ctx, &base)
	}
	return text, nil
}

// mutate applies fn to the entry of a known step under the slot lock and persists.
// A missing entry starts from the default of the configured schema.
func (e *Engine) mutate(ctx context.Context, id string, reason domain.SaveReason, fn func(domain.Entry) domain.Entry) (domain.Entry, error) {
	step := ResolveStep(id, e.catalog)

	var updated domain.Entry
	_, err := e.sessions.Update(ctx, e.slot, func(l *domain.Ledger) error {
		current, ok := l.Entry(step.ID)
		if !ok {
			current = domain.DefaultEntry(e.schema)
		}
		updated = fn(current)
		l.Put(step.ID, updated)
		return nil
	})
	if err != nil {
		return domain.Entry{}, err
	}

	e.emitEntrySaved(ctx, step.ID, reason, updated)
	return updated, nil
}

func (e *Engine) emitEntrySaved(ctx context.Context, stepID string, reason domain.SaveReason, entry domain.Entry) {
	e.logger.Debug("Entry saved", "step_id", stepID, "reason", reason, "chars", len(entry.Text))
	if e.hooks.OnEntrySaved == nil {
		return
	}
	e.hooks.OnEntrySaved(ctx, &domain.EntryEvent{
		EventBase: e.event(domain.EventEntrySaved),
		StepID:    stepID,
		Reason:    reason,
		Mode:      entry.Mode,
		Chars:     len([]rune(entry.Text)),
	})
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.clock(), Type: t, Slot: e.slot}
}

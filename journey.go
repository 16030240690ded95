package journey

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/internal/runtime"
	loamAdapter "github.com/aretw0/journey/pkg/adapters/loam"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/session"
)

// Engine is the high-level entry point for the journey library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager

	loader       ports.CatalogLoader
	store        ports.LedgerStore
	cursor       ports.Cursor
	locker       ports.DistributedLocker
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	slot         string
	schema       domain.EntryKind
	clock        func() time.Time
	debounce     time.Duration
	artifactOpts []artifact.Option

	// Name labels the journey, usually the base name of the catalog source.
	Name string
}

var _ ports.Journal = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom CatalogLoader, bypassing source detection.
func WithLoader(l ports.CatalogLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets where the ledger is persisted. Defaults to an in-memory store.
func WithStore(s ports.LedgerStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithCursor sets where the current step is remembered. Defaults to memory.
func WithCursor(c ports.Cursor) Option {
	return func(e *Engine) {
		e.cursor = c
	}
}

// WithLocker adds a distributed lock around every ledger read-modify-write.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSlot sets the name of the persisted ledger slot (default "ni_ledger_v2").
func WithSlot(slot string) Option {
	return func(e *Engine) {
		e.slot = slot
	}
}

// WithEntrySchema selects plain or dual-mode entries for first visits.
func WithEntrySchema(kind domain.EntryKind) Option {
	return func(e *Engine) {
		e.schema = kind
	}
}

// WithClock sets the time source used for events and the artifact date.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithDebounce sets the autosave delay of editors returned by Edit.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithArtifactOptions tunes the compiled artifact.
func WithArtifactOptions(opts ...artifact.Option) Option {
	return func(e *Engine) {
		e.artifactOpts = append(e.artifactOpts, opts...)
	}
}

// New initializes a journey Engine and loads its catalog.
//
// source is a steps.json/steps.yaml file, an http(s) URL, or a directory of Markdown
// step documents. If WithLoader is provided, source is only used as a label.
func New(source string, opts ...Option) (*Engine, error) {
	return NewContext(context.Background(), source, opts...)
}

// NewContext is New with a context for the catalog load.
func NewContext(ctx context.Context, source string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		slot:     domain.DefaultSlot,
		schema:   domain.EntryDual,
		debounce: runtime.DefaultDebounce,
	}

	// Apply Options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		loader, err := loaderFor(source, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if source != "" {
		eng.Name = filepath.Base(source)
		eng.logger = eng.logger.With("journey", eng.Name)
	}

	c, err := eng.loader.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.cursor == nil {
		eng.cursor = memory.NewCursor()
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	nav, err := runtime.NewNavigator(c, eng.cursor)
	if err != nil {
		return nil, err
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithSlot(eng.slot),
		runtime.WithEntrySchema(eng.schema),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.clock),
		runtime.WithArtifactOptions(eng.artifactOpts...),
	}
	eng.runtime, err = runtime.NewEngine(c, eng.sessions, nav, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

// loaderFor picks the catalog loader for a source: Loam for directories, the
// steps file loader for files and URLs.
func loaderFor(source string, logger *slog.Logger) (ports.CatalogLoader, error) {
	if source == "" {
		return nil, fmt.Errorf("catalog source is required when no custom loader is provided")
	}
	if catalog.IsURL(source) {
		return catalog.NewLoader(source, catalog.WithLogger(logger)), nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalog, err)
	}
	if info.IsDir() {
		return loamAdapter.Open(source)
	}
	return catalog.NewLoader(source, catalog.WithLogger(logger)), nil
}

// Catalog returns the loaded steps in authored order.
func (e *Engine) Catalog() domain.Catalog {
	return e.runtime.Catalog()
}

// Slot returns the persisted slot name.
func (e *Engine) Slot() string {
	return e.runtime.Slot()
}

// Step returns a step by id, or domain.ErrUnknownStep.
func (e *Engine) Step(id string) (domain.Step, error) {
	return e.runtime.Step(id)
}

// Cursor returns the id under the cursor, or "complete".
func (e *Engine) Cursor(ctx context.Context) (string, error) {
	return e.runtime.Cursor(ctx)
}

// Current resolves the cursor and materializes the entry of the current step.
func (e *Engine) Current(ctx context.Context) (domain.StepView, error) {
	return e.runtime.Current(ctx)
}

// Visit resolves a step id (falling back to the first step) and materializes its entry.
func (e *Engine) Visit(ctx context.Context, stepID string) (domain.StepView, error) {
	return e.runtime.Visit(ctx, stepID)
}

// SaveText persists the text answer of a step.
func (e *Engine) SaveText(ctx context.Context, stepID, text string, reason domain.SaveReason) (domain.Entry, error) {
	return e.runtime.SaveText(ctx, stepID, text, reason)
}

// SetMode switches a step between typing and ink.
func (e *Engine) SetMode(ctx context.Context, stepID string, mode domain.Mode) (domain.Entry, error) {
	return e.runtime.SetMode(ctx, stepID, mode)
}

// SetInk stores the drawing of a step.
func (e *Engine) SetInk(ctx context.Context, stepID, ink string) (domain.Entry, error) {
	return e.runtime.SetInk(ctx, stepID, ink)
}

// ClearInk removes the drawing of a step.
func (e *Engine) ClearInk(ctx context.Context, stepID string) (domain.Entry, error) {
	return e.runtime.ClearInk(ctx, stepID)
}

// Next saves the step and moves the cursor forward. It returns the new cursor.
func (e *Engine) Next(ctx context.Context, stepID string, text *string) (string, error) {
	return e.runtime.Next(ctx, stepID, text)
}

// Restart clears the ledger and moves the cursor back to the first step.
func (e *Engine) Restart(ctx context.Context) (string, error) {
	return e.runtime.Restart(ctx)
}

// Compile renders the artifact from the catalog and the current ledger.
func (e *Engine) Compile(ctx context.Context) (string, error) {
	return e.runtime.Compile(ctx)
}

// Ledger returns the persisted ledger. Missing or corrupt data reads as empty.
func (e *Engine) Ledger(ctx context.Context) (*domain.Ledger, error) {
	return e.runtime.Ledger(ctx)
}

// Edit starts an autosaving editor on a visited step.
// The caller must Close it (or call its Next) when leaving the step.
func (e *Engine) Edit(view domain.StepView) *runtime.Editor {
	return e.runtime.Edit(view, e.debounce)
}

// Sessions returns the ledger session manager, for slot maintenance.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Watch returns a channel that signals when the underlying catalog changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying CatalogLoader used by the engine.
func (e *Engine) Loader() ports.CatalogLoader {
	return e.loader
}

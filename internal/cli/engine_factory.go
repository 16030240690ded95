package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/config"
	"github.com/aretw0/journey/pkg/adapters/file"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/adapters/redis"
	"github.com/aretw0/journey/pkg/adapters/sqlite"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/observability"
	"github.com/aretw0/journey/pkg/persistence/middleware"
	"github.com/aretw0/journey/pkg/ports"
)

// Backend is an opened ledger store, with the cursor and locker that go with it.
type Backend struct {
	Store  ports.LedgerStore
	Cursor ports.Cursor
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases connections held by the store.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend opens the configured ledger store and wraps it with the redact and
// encryption middlewares. Redaction runs first, on the plaintext.
func OpenBackend(cfg *config.Config) (*Backend, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	b := &Backend{Cursor: file.NewCursor(cfg.CursorPath())}
	switch cfg.Ledger.Backend {
	case config.BackendMemory:
		b.Store = memory.NewStore()
		b.Cursor = memory.NewCursor()
	case config.BackendFile:
		b.Store = file.New(cfg.LedgerDir())
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.Store = s
		b.close = s.Close
	case config.BackendRedis:
		s, err := redis.New(cfg.Ledger.RedisURL, redis.WithTTL(cfg.RedisTTL()))
		if err != nil {
			return nil, err
		}
		b.Store = s
		b.Locker = redis.NewLocker(s.Client(), "journey:lock:")
		b.close = s.Close
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}

	var mws []middleware.Middleware
	if len(cfg.Ledger.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(cfg.Ledger.Redact)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.Ledger.EncryptionKey != "" {
		enc, err := encryptionConfig(cfg)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

func encryptionConfig(cfg *config.Config) (middleware.EncryptionConfig, error) {
	active, err := middleware.ParseKey(cfg.Ledger.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("ledger.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range cfg.Ledger.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("ledger.fallback_keys: %w", err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

// ArtifactOptions maps the [artifact] section to compiler options.
func ArtifactOptions(cfg *config.Config) []artifact.Option {
	policy, _ := artifact.ParseEmptyPolicy(cfg.Artifact.EmptyPolicy)
	opts := []artifact.Option{
		artifact.WithEmptyPolicy(policy),
		artifact.WithInkNotice(cfg.Artifact.InkNotice),
	}
	if cfg.Artifact.Title != "" || len(cfg.Artifact.Preamble) > 0 {
		title := cfg.Artifact.Title
		if title == "" {
			title = artifact.DefaultTitle
		}
		preamble := cfg.Artifact.Preamble
		if len(preamble) == 0 {
			preamble = artifact.DefaultPreamble
		}
		opts = append(opts, artifact.WithHeader(title, preamble...))
	}
	return opts
}

// EngineOptions are the host-side knobs of CreateEngine.
type EngineOptions struct {
	Debug  bool
	Logger *slog.Logger
	Hooks  []domain.LifecycleHooks
}

// CreateEngine initializes a journey engine with the configured catalog and backend.
// The caller owns the returned Backend and must Close it.
func CreateEngine(ctx context.Context, cfg *config.Config, opts EngineOptions) (*journey.Engine, *Backend, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening ledger: %w", err)
	}

	eng, err := createEngineOn(ctx, cfg, backend, opts)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return eng, backend, nil
}

// createEngineOn builds an engine over an already opened backend, e.g. after a
// catalog reload in serve.
func createEngineOn(ctx context.Context, cfg *config.Config, backend *Backend, opts EngineOptions) (*journey.Engine, error) {
	schema, err := domain.ParseEntryKind(cfg.Ledger.EntrySchema)
	if err != nil {
		return nil, err
	}

	hooks := append([]domain.LifecycleHooks(nil), opts.Hooks...)
	if opts.Debug && opts.Logger != nil {
		hooks = append(hooks, observability.LogHooks(opts.Logger))
	}

	engineOpts := []journey.Option{
		journey.WithStore(backend.Store),
		journey.WithCursor(backend.Cursor),
		journey.WithSlot(cfg.Ledger.Slot),
		journey.WithEntrySchema(schema),
		journey.WithDebounce(cfg.Debounce()),
		journey.WithArtifactOptions(ArtifactOptions(cfg)...),
		journey.WithLifecycleHooks(observability.ChainHooks(hooks...)),
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, journey.WithLogger(opts.Logger))
	}
	if backend.Locker != nil {
		engineOpts = append(engineOpts, journey.WithLocker(backend.Locker))
	}

	eng, err := journey.NewContext(ctx, cfg.Catalog.Path, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing journey: %w", err)
	}
	return eng, nil
}

// Reloader rebuilds the engine on the same backend when the catalog changes.
type Reloader struct {
	cfg     *config.Config
	backend *Backend
	opts    EngineOptions
}

// NewReloader returns a Reloader for an opened backend.
func NewReloader(cfg *config.Config, backend *Backend, opts EngineOptions) *Reloader {
	return &Reloader{cfg: cfg, backend: backend, opts: opts}
}

// Reload loads the catalog again and returns a fresh engine.
func (r *Reloader) Reload(ctx context.Context) (*journey.Engine, error) {
	return createEngineOn(ctx, r.cfg, r.backend, r.opts)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses editor save bursts into one reload.
const DefaultWatchDebounce = 100 * time.Millisecond

// Loader implements ports.CatalogLoader for a steps file or an http(s) URL.
// Local files also implement ports.Watchable.
type Loader struct {
	Source string
	Client *http.Client

	logger   *slog.Logger
	debounce time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote catalogs.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.Client = c
	}
}

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithWatchDebounce sets the quiet interval before a change is reported.
func WithWatchDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.debounce = d
	}
}

// NewLoader creates a loader for a path or URL.
func NewLoader(source string, opts ...LoaderOption) *Loader {
	l := &Loader{
		Source:   source,
		logger:   logging.NewNop(),
		debounce: DefaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadCatalog reads, parses and validates the catalog.
func (l *Loader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	if l.Source == "" {
		return nil, fmt.Errorf("%w: no catalog source configured", ErrCatalog)
	}

	var c domain.Catalog
	var err error
	if IsURL(l.Source) {
		c, err = LoadURL(ctx, l.Client, l.Source)
	} else {
		c, err = LoadFile(l.Source)
	}
	if err != nil {
		return nil, err
	}

	report := Validate(c)
	for _, w := range report.Warnings {
		l.logger.Warn("Catalog warning", "source", l.Source, "warning", w)
	}
	if err := report.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Watch reports changes of a local steps file. The directory is watched so that
// editors replacing the file by rename are seen too.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	if IsURL(l.Source) {
		return nil, errors.New("remote catalogs cannot be watched")
	}
	abs, err := filepath.Abs(l.Source)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan struct{}, 1)
	target := filepath.Base(abs)

	go func() {
		defer fsw.Close()
		defer close(ch)

		var timer *time.Timer
		fire := make(chan struct{}, 1)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(l.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				l.logger.Debug("Catalog changed", "path", abs)
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				l.logger.Warn("Catalog watcher error", "err", err)
			}
		}
	}()

	return ch, nil
}

package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader reads a step catalog from a directory of Markdown documents, one per step.
type Loader struct {
	Repo *loam.TypedRepository[StepMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StepMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict keeps numeric frontmatter consistent across formats; read-only keeps Loam
	// from creating its sandbox, since the catalog is never written.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[StepMetadata](repo)), nil
}

type orderedStep struct {
	step  domain.Step
	order float64
	path  string
}

// LoadCatalog lists every document and returns the steps sorted by order, then id.
// When no document declares a next step, the steps are chained in that order.
func (l *Loader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	steps := make([]orderedStep, 0, len(docs))
	explicitNext := false

	for _, doc := range docs {
		meta := doc.Data
		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		transcript := meta.Transcript
		if transcript == "" {
			transcript = strings.TrimSpace(doc.Content)
		}
		if meta.Next != "" {
			explicitNext = true
		}

		order, err := orderOf(meta.Order)
		if err != nil {
			return nil, fmt.Errorf("step '%s': %w", id, err)
		}

		steps = append(steps, orderedStep{
			step: domain.Step{
				ID:         id,
				Title:      meta.Title,
				Question:   meta.Question,
				PromptHint: meta.PromptHint,
				VideoURL:   meta.VideoURL,
				Transcript: transcript,
				Next:       trimExtension(meta.Next),
			},
			order: order,
			path:  doc.ID,
		})
	}

	if len(steps) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].order != steps[j].order {
			return steps[i].order < steps[j].order
		}
		return steps[i].step.ID < steps[j].step.ID
	})

	c := make(domain.Catalog, len(steps))
	for i, s := range steps {
		c[i] = s.step
		if !explicitNext && i+1 < len(steps) {
			c[i].Next = steps[i+1].step.ID
		}
	}
	if err := catalog.Validate(c).Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// unordered documents sort after ordered ones.
const unordered = math.MaxFloat64

func orderOf(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return unordered, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		if strings.TrimSpace(n) == "" {
			return unordered, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("invalid order %v (%T)", v, v)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces on its side; coalesce into one pending signal here.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/journey/pkg/domain"
)

// Loader implements ports.CatalogLoader over a fixed list of steps.
type Loader struct {
	steps domain.Catalog
}

// NewLoader creates a Loader from domain objects, keeping their order.
// This improves DX for tests and embedded journeys.
func NewLoader(steps ...domain.Step) (*Loader, error) {
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("step %d missing ID", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate step ID %q", s.ID)
		}
		seen[s.ID] = true
	}
	return &Loader{steps: append(domain.Catalog(nil), steps...)}, nil
}

// LoadCatalog returns a copy of the steps.
func (l *Loader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	return append(domain.Catalog(nil), l.steps...), nil
}

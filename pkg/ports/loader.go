package ports

import (
	"context"

	"github.com/aretw0/journey/pkg/domain"
)

// CatalogLoader defines how the engine retrieves the step catalog.
// The catalog is read once per session and treated as immutable.
type CatalogLoader interface {
	// LoadCatalog returns the steps in authored order.
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is used by the server to hot-reload the catalog between sessions.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying catalog changes.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrCatalog wraps every failure to obtain a usable catalog.
var ErrCatalog = errors.New("catalog load failed")

type document struct {
	Steps []domain.Step `json:"steps" yaml:"steps"`
}

// Parse decodes catalog bytes. format is "json" or "yaml"; empty means sniff.
func Parse(data []byte, format string) (domain.Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, domain.ErrEmptyCatalog)
	}
	if format == "" {
		format = "yaml"
		if trimmed[0] == '[' || trimmed[0] == '{' {
			format = "json"
		}
	}

	var steps []domain.Step
	var err error
	switch format {
	case "json":
		if trimmed[0] == '{' {
			var doc document
			err = json.Unmarshal(trimmed, &doc)
			steps = doc.Steps
		} else {
			err = json.Unmarshal(trimmed, &steps)
		}
	case "yaml":
		var node yaml.Node
		if err = yaml.Unmarshal(trimmed, &node); err == nil {
			steps, err = decodeYAML(&node)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrCatalog, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, domain.ErrEmptyCatalog)
	}
	return domain.Catalog(steps), nil
}

func decodeYAML(node *yaml.Node) ([]domain.Step, error) {
	root := node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		var doc document
		err := root.Decode(&doc)
		return doc.Steps, err
	}
	var steps []domain.Step
	err := root.Decode(&steps)
	return steps, err
}

// FormatOf derives the format from a file name or URL path.
func FormatOf(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// LoadFile reads and parses a local steps file.
func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	return Parse(data, FormatOf(path))
}

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// maxCatalogBytes caps remote catalogs.
const maxCatalogBytes = 4 << 20

// LoadURL fetches a steps file over HTTP, bypassing caches.
func LoadURL(ctx context.Context, client *http.Client, url string) (domain.Catalog, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrCatalog, url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	format := FormatOf(url)
	if format == "" && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		format = "json"
	}
	return Parse(data, format)
}

package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
)

// RedactedValue replaces masked fields.
const RedactedValue = "***"

type redactMiddleware struct {
	next     ports.LedgerStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks unknown fields whose keys match
// one of the patterns, at the ledger level and inside entries. Answer text and ink
// are never touched.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.LedgerStore) ports.LedgerStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, slot string, ledger *domain.Ledger) error {
	// Mask a copy; the caller keeps its in-memory ledger.
	cloned := ledger.Clone()

	maskMap(cloned.Extra, m.patterns)
	maskMap(cloned.ExtraEntries, m.patterns)
	for id, e := range cloned.Entries {
		if len(e.Extra) == 0 {
			continue
		}
		maskMap(e.Extra, m.patterns)
		cloned.Entries[id] = e
	}

	return m.next.Save(ctx, slot, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, slot string) (*domain.Ledger, error) {
	return m.next.Load(ctx, slot)
}

func (m *redactMiddleware) Clear(ctx context.Context, slot string) error {
	return m.next.Clear(ctx, slot)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = RedactedValue
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}

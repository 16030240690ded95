package dsl

import (
	"fmt"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
)

// Builder manages the catalog construction. Steps keep the order they were added in.
type Builder struct {
	order []string
	steps map[string]*StepBuilder
}

// New creates a new catalog builder.
func New() *Builder {
	return &Builder{
		steps: make(map[string]*StepBuilder),
	}
}

// Add creates a new step at the end of the catalog.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.Step{
			ID: id,
		},
	}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Catalog returns the steps in order. A step without Go or Terminal continues to
// the step added after it.
func (b *Builder) Catalog() domain.Catalog {
	c := make(domain.Catalog, 0, len(b.order))
	for i, id := range b.order {
		sb := b.steps[id]
		step := sb.step
		if !sb.linked && !sb.terminal && i+1 < len(b.order) {
			step.Next = b.order[i+1]
		}
		c = append(c, step)
	}
	return c
}

// Build validates the catalog and compiles it into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	c := b.Catalog()
	if err := catalog.Validate(c).Err(); err != nil {
		return nil, err
	}

	loader, err := memory.NewLoader(c...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader, nil
}

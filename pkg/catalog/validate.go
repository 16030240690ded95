package catalog

import (
	"fmt"
	"strings"

	"github.com/aretw0/journey/pkg/domain"
)

// Report is the outcome of Validate. Errors make the catalog unusable; warnings do not.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the catalog has no errors.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as one error wrapping ErrCatalog, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCatalog, strings.Join(r.Errors, "; "))
}

// Validate checks ids, titles and next references. Only ids the flow cannot address are
// errors; duplicates and dangling next references are warnings because the first match
// wins and an unknown step resolves to the first one.
func Validate(c domain.Catalog) Report {
	var r Report
	if len(c) == 0 {
		r.Errors = append(r.Errors, domain.ErrEmptyCatalog.Error())
		return r
	}

	seen := make(map[string]int, len(c))
	for i, s := range c {
		switch {
		case strings.TrimSpace(s.ID) == "":
			r.Errors = append(r.Errors, fmt.Sprintf("step #%d has no id", i+1))
		case s.ID == domain.CompleteSentinel:
			r.Errors = append(r.Errors, fmt.Sprintf("step #%d uses the reserved id %q", i+1, domain.CompleteSentinel))
		case strings.ContainsAny(s.ID, "\r\n"):
			r.Errors = append(r.Errors, fmt.Sprintf("step #%d id contains a line break", i+1))
		}
		if prev, dup := seen[s.ID]; dup {
			if s.ID != "" {
				r.Warnings = append(r.Warnings, fmt.Sprintf("duplicate id %q (steps #%d and #%d), only the first is used", s.ID, prev+1, i+1))
			}
		} else {
			seen[s.ID] = i
		}
		if s.Title == "" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("step %q has no title", s.ID))
		}
	}

	for _, s := range c {
		if s.Next == "" {
			continue
		}
		if _, ok := seen[s.Next]; !ok {
			r.Warnings = append(r.Warnings, fmt.Sprintf("step %q points to unknown next %q, the flow restarts at the first step", s.ID, s.Next))
		}
	}

	if cycle := findCycle(c); cycle != "" {
		r.Warnings = append(r.Warnings, "next chain loops: "+cycle)
	}
	unreachable := unreachableFromFirst(c)
	if len(unreachable) > 0 {
		r.Warnings = append(r.Warnings, "unreachable from the first step: "+strings.Join(unreachable, ", "))
	}
	return r
}

func findCycle(c domain.Catalog) string {
	for _, start := range c {
		visited := map[string]bool{}
		path := []string{}
		cur := start.ID
		for cur != "" {
			if visited[cur] {
				if cur == start.ID {
					return strings.Join(append(path, cur), " -> ")
				}
				break
			}
			visited[cur] = true
			path = append(path, cur)
			s, ok := c.Lookup(cur)
			if !ok {
				break
			}
			cur = s.Next
		}
	}
	return ""
}

func unreachableFromFirst(c domain.Catalog) []string {
	reached := map[string]bool{}
	cur := c[0].ID
	for cur != "" && !reached[cur] {
		reached[cur] = true
		s, ok := c.Lookup(cur)
		if !ok {
			break
		}
		cur = s.Next
	}
	var out []string
	for _, s := range c {
		if s.ID != "" && !reached[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

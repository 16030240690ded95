package domain

// Step represents one authored prompt of the journey.
// Steps are read-only input: the engine never modifies the catalog.
type Step struct {
	ID         string `json:"id" yaml:"id" mapstructure:"id"`
	Title      string `json:"title" yaml:"title" mapstructure:"title"`
	Question   string `json:"question,omitempty" yaml:"question,omitempty" mapstructure:"question"`
	PromptHint string `json:"prompt_hint,omitempty" yaml:"prompt_hint,omitempty" mapstructure:"prompt_hint"`
	VideoURL   string `json:"video_url,omitempty" yaml:"video_url,omitempty" mapstructure:"video_url"`
	Transcript string `json:"transcript,omitempty" yaml:"transcript,omitempty" mapstructure:"transcript"`

	// Next is the id of the successor step. Empty means this is the last step.
	Next string `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
}

// IsLast reports whether the step has no successor.
func (s Step) IsLast() bool {
	return s.Next == ""
}

// Catalog is the ordered list of steps of a journey.
type Catalog []Step

// First returns the first step of the catalog.
func (c Catalog) First() (Step, bool) {
	if len(c) == 0 {
		return Step{}, false
	}
	return c[0], true
}

// Lookup finds a step by id.
func (c Catalog) Lookup(id string) (Step, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// Index returns the position of the step in the catalog, or -1.
func (c Catalog) Index(id string) int {
	for i, s := range c {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the step ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, s := range c {
		ids[i] = s.ID
	}
	return ids
}

// StepView is what a host needs to render the current position of the journey.
type StepView struct {
	Step     Step  `json:"step"`
	Entry    Entry `json:"entry"`
	Position int   `json:"position"` // 1-based
	Total    int   `json:"total"`

	// Complete is true when the cursor holds CompleteSentinel. Step and Entry are zero then.
	Complete bool `json:"complete"`
}

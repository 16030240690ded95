package artifact

import (
	"strings"
	"time"

	"github.com/aretw0/journey/pkg/domain"
)

const (
	DefaultTitle      = "THE IDEALISM LEDGER"
	Separator         = "----"
	EmptyPlaceholder  = "[no text entered]"
	InkNotice         = "[ink entry not transcribed]"
	DefaultFilename   = "idealism-ledger.txt"
	createdDateLayout = "2006-01-02"
)

// DefaultPreamble is printed under the header.
var DefaultPreamble = []string{
	"This is your proof-of-work - your personal record of what shifted.",
	"Keep it. Edit it. Return to it when the old spell tries to reassert itself.",
}

// EmptyPolicy decides how a step without an answer is rendered.
type EmptyPolicy string

const (
	// PolicyPlaceholder renders the block with EmptyPlaceholder as the answer.
	PolicyPlaceholder EmptyPolicy = "placeholder"
	// PolicyOmit skips the whole block.
	PolicyOmit EmptyPolicy = "omit"
)

// ParseEmptyPolicy validates a policy name. Empty means PolicyPlaceholder.
func ParseEmptyPolicy(s string) (EmptyPolicy, bool) {
	switch EmptyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPlaceholder:
		return PolicyPlaceholder, true
	case PolicyOmit:
		return PolicyOmit, true
	}
	return "", false
}

// Extractor turns an entry into the text that goes in the artifact.
type Extractor func(domain.Entry) string

type options struct {
	title     string
	preamble  []string
	clock     func() time.Time
	policy    EmptyPolicy
	extract   Extractor
	inkNotice bool
}

// Option configures Compile.
type Option func(*options)

// WithClock sets the source of the creation date.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithEmptyPolicy selects how unanswered steps render.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithExtractor replaces domain.Entry.Answer as the text source.
func WithExtractor(fn Extractor) Option {
	return func(o *options) {
		if fn != nil {
			o.extract = fn
		}
	}
}

// WithInkNotice makes ink-only entries render as InkNotice instead of empty.
func WithInkNotice(enabled bool) Option {
	return func(o *options) {
		o.inkNotice = enabled
	}
}

// WithHeader overrides the title line and the preamble.
func WithHeader(title string, preamble ...string) Option {
	return func(o *options) {
		o.title = title
		o.preamble = preamble
	}
}

// Compile renders the artifact for the catalog and ledger.
func Compile(steps domain.Catalog, ledger *domain.Ledger, opts ...Option) string {
	o := options{
		title:    DefaultTitle,
		preamble: DefaultPreamble,
		clock:    time.Now,
		policy:   PolicyPlaceholder,
		extract:  domain.Entry.Answer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	lines := []string{
		o.title,
		"Created: " + o.clock().UTC().Format(createdDateLayout),
		"",
	}
	lines = append(lines, o.preamble...)
	lines = append(lines, "", Separator)

	for _, step := range steps {
		entry, _ := ledger.Entry(step.ID)
		text := Normalize(o.extract(entry))

		if text == "" {
			switch {
			case o.inkNotice && entry.HasInk():
				text = InkNotice
			case o.policy == PolicyOmit:
				continue
			default:
				text = EmptyPlaceholder
			}
		}

		prompt := ""
		if step.Question != "" {
			prompt = "Prompt: " + step.Question
		}
		lines = append(lines,
			"STEP "+step.ID+": "+step.Title,
			prompt,
			"",
			text,
			"",
			Separator,
		)
	}

	return strings.Join(lines, "\n")
}

// Normalize converts CRLF and lone CR line endings to LF and trims surrounding whitespace.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// Package sanitize cleans answer text arriving from terminals, HTTP and MCP clients
// before it reaches the ledger.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxAnswerSize bounds one answer. Journal entries are long; a single one
	// over 64KB is a paste accident.
	DefaultMaxAnswerSize = 64 << 10
	// EnvMaxAnswerSize overrides the default.
	EnvMaxAnswerSize = "JOURNEY_MAX_ANSWER_SIZE"
)

var (
	ErrTooLarge    = errors.New("answer exceeds maximum allowed size")
	ErrInvalidUTF8 = errors.New("answer contains invalid UTF-8 sequences")
)

// Answer enforces the size limit, validates UTF-8 and strips control characters
// other than newline, tab and carriage return. Escape sequences pasted from a
// terminal would otherwise end up in the artifact.
func Answer(input string) (string, error) {
	limit := MaxAnswerSize()
	if len(input) > limit {
		// Rejected, never truncated: a cut answer would be saved silently.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxAnswerSize returns the limit in bytes, honouring EnvMaxAnswerSize.
func MaxAnswerSize() int {
	if val := os.Getenv(EnvMaxAnswerSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxAnswerSize
}

package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_SizeLimit(t *testing.T) {
	t.Setenv(EnvMaxAnswerSize, "16")

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", 15, false},
		{"Exact Limit", 16, false},
		{"Over Limit", 17, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Answer(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswer_StripsControlCharacters(t *testing.T) {
	got, err := Answer("line one\n\x1b[31mred\x1b[0m\tand\x00 bell\x07\r\n")
	require.NoError(t, err)
	assert.Equal(t, "line one\n[31mred[0m\tand bell\r\n", got)
}

func TestAnswer_KeepsCleanInput(t *testing.T) {
	in := "Já não sou quem era.\n\tAinda bem."
	got, err := Answer(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestAnswer_InvalidUTF8(t *testing.T) {
	_, err := Answer("bad \xff byte")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestMaxAnswerSize_Env(t *testing.T) {
	t.Setenv(EnvMaxAnswerSize, "")
	assert.Equal(t, DefaultMaxAnswerSize, MaxAnswerSize())

	t.Setenv(EnvMaxAnswerSize, "-5")
	assert.Equal(t, DefaultMaxAnswerSize, MaxAnswerSize())

	t.Setenv(EnvMaxAnswerSize, "100")
	assert.Equal(t, 100, MaxAnswerSize())
}

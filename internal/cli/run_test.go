package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/config"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newRunEngine(t *testing.T) *journey.Engine {
	t.Helper()
	eng, b, err := CreateEngine(context.Background(), testConfig(t, config.BackendMemory), EngineOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return eng
}

func runScript(t *testing.T, eng *journey.Engine, script string, opts RunOptions) string {
	t.Helper()
	var out bytes.Buffer
	err := RunSession(context.Background(), eng, strings.NewReader(script), &out, opts)
	require.NoError(t, err)
	return out.String()
}

func TestRunSession_FullJourney(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	out := runScript(t, eng, strings.Join([]string{
		"I noticed the old story",
		"::colons survive",
		":next",
		":mode ink",
		":next",
		":quit",
	}, "\n"), RunOptions{})

	assert.Contains(t, out, "What did you notice?")
	assert.Contains(t, out, "What will you do?")
	assert.Contains(t, out, artifact.DefaultTitle)

	ledger, err := eng.Ledger(ctx)
	require.NoError(t, err)
	first, _ := ledger.Entry("1")
	assert.Equal(t, "I noticed the old story\n:colons survive", first.Text)
	second, _ := ledger.Entry("2")
	assert.True(t, second.IsInk())

	cursor, err := eng.Cursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CompleteSentinel, cursor)
}

func TestRunSession_EOFKeepsTypedText(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	runScript(t, eng, "half an answer\n", RunOptions{})

	view, err := eng.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", view.Step.ID)
	assert.Equal(t, "half an answer", view.Entry.Text)
}

func TestRunSession_StepCommands(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	drawing := filepath.Join(t.TempDir(), "drawing.png")
	require.NoError(t, os.WriteFile(drawing, pngHeader, 0o644))
	notPNG := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notPNG, []byte("plain text"), 0o644))

	out := runScript(t, eng, strings.Join([]string{
		"draft",
		":save",
		":mode sideways",
		":ink " + notPNG,
		":ink " + drawing,
		":show",
		":bogus",
		":help",
		":quit",
	}, "\n"), RunOptions{})

	assert.Contains(t, out, StatusSaved)
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "must be a PNG")
	assert.Contains(t, out, "Drawing saved.")
	assert.Contains(t, out, "Unknown command :bogus")
	assert.Contains(t, out, ":clear-ink")

	ledger, err := eng.Ledger(ctx)
	require.NoError(t, err)
	entry, _ := ledger.Entry("1")
	assert.Equal(t, "draft", entry.Text)
	assert.True(t, strings.HasPrefix(entry.Ink, "data:image/png;base64,"))

	runScript(t, eng, ":clear-ink\n:quit\n", RunOptions{})
	ledger, err = eng.Ledger(ctx)
	require.NoError(t, err)
	entry, _ = ledger.Entry("1")
	assert.False(t, entry.HasInk())
}

func TestRunSession_CompleteScreen(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	_, err := eng.Next(ctx, "1", ptr("one"))
	require.NoError(t, err)
	_, err = eng.Next(ctx, "2", ptr("two"))
	require.NoError(t, err)

	var copied string
	exporter := &Exporter{
		Clipboard: func(s string) error { copied = s; return nil },
		Filename:  artifact.DefaultFilename,
	}
	dir := t.TempDir()

	out := runScript(t, eng, strings.Join([]string{
		":copy",
		":download " + dir,
		":quit",
	}, "\n"), RunOptions{Exporter: exporter})

	assert.Contains(t, out, StatusCopied)
	assert.Contains(t, copied, "two")

	data, err := os.ReadFile(filepath.Join(dir, artifact.DefaultFilename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "one")
}

func TestRunSession_CopyFailureKeepsLedger(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	_, err := eng.Next(ctx, "1", ptr("one"))
	require.NoError(t, err)
	_, err = eng.Next(ctx, "2", nil)
	require.NoError(t, err)

	exporter := &Exporter{Clipboard: func(string) error { return errors.New("no display") }}
	out := runScript(t, eng, ":copy\n:quit\n", RunOptions{Exporter: exporter})
	assert.Contains(t, out, StatusCopyFailed)

	ledger, err := eng.Ledger(ctx)
	require.NoError(t, err)
	entry, _ := ledger.Entry("1")
	assert.Equal(t, "one", entry.Text)
}

func TestRunSession_Restart(t *testing.T) {
	eng := newRunEngine(t)
	ctx := context.Background()

	_, err := eng.Next(ctx, "1", ptr("one"))
	require.NoError(t, err)
	_, err = eng.Next(ctx, "2", ptr("two"))
	require.NoError(t, err)

	out := runScript(t, eng, ":restart\nfresh start\n:quit\n", RunOptions{})
	assert.Contains(t, out, "What did you notice?")

	ledger, err := eng.Ledger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.Len())
	entry, _ := ledger.Entry("1")
	assert.Equal(t, "fresh start", entry.Text)
}

func TestRunSession_Cancelled(t *testing.T) {
	eng := newRunEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := RunSession(ctx, eng, strings.NewReader("ignored\n"), &out, RunOptions{})
	assert.NoError(t, err)
}

// textRejectingStore fails every save that carries typed text.
type textRejectingStore struct{ *memory.Store }

func (s textRejectingStore) Save(ctx context.Context, slot string, l *domain.Ledger) error {
	for _, e := range l.Entries {
		if e.Text != "" {
			return errors.New("disk full")
		}
	}
	return s.Store.Save(ctx, slot, l)
}

func TestRunSession_CancelledFlushFailureIsLogged(t *testing.T) {
	loader, err := memory.NewLoader(domain.Step{ID: "1", Title: "Only"})
	require.NoError(t, err)
	eng, err := journey.New("test",
		journey.WithLoader(loader),
		journey.WithStore(textRejectingStore{Store: memory.NewStore()}),
		journey.WithDebounce(time.Hour),
	)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := logging.NewWithFormat(&logs, slog.LevelDebug, "text")

	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() {
		done <- RunSession(ctx, eng, pr, io.Discard, RunOptions{Logger: logger})
	}()

	// The second write only returns once the first line was taken by the session.
	_, err = pw.Write([]byte("unsaved thought\n"))
	require.NoError(t, err)
	_, err = pw.Write([]byte("more\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Contains(t, logs.String(), "Final save failed")
	assert.Contains(t, logs.String(), "disk full")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line  string
		cmd   string
		arg   string
		isCmd bool
	}{
		{"plain text", "", "plain text", false},
		{":next", "next", "", true},
		{":MODE  ink ", "mode", "ink", true},
		{":download /tmp/out dir", "download", "/tmp/out dir", true},
		{"::literal", "", ":literal", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, arg, ok := parseCommand(tt.line)
			assert.Equal(t, tt.isCmd, ok)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func ptr(s string) *string { return &s }

func TestRunSession_SanitizesTypedLines(t *testing.T) {
	eng := newRunEngine(t)

	runScript(t, eng, "\x1b[2Jcleared screen\n:quit\n", RunOptions{})

	ledger, err := eng.Ledger(context.Background())
	require.NoError(t, err)
	entry, _ := ledger.Entry("1")
	assert.Equal(t, "[2Jcleared screen", entry.Text)
}

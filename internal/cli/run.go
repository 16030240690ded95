package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/internal/presentation/tui"
	"github.com/aretw0/journey/internal/sanitize"
	"github.com/aretw0/journey/pkg/artifact"
	"github.com/aretw0/journey/pkg/domain"
)

// RunOptions configures an interactive session.
type RunOptions struct {
	// Render turns step markdown into terminal output. Nil prints raw markdown.
	Render func(string) (string, error)
	// Exporter handles :copy and :download on the completion screen.
	Exporter *Exporter
	// Color enables status colouring.
	Color bool
	// Logger receives failures the session cannot show, such as a lost final save.
	Logger *slog.Logger
}

const stepHelp = `Type your answer; each line is appended and autosaved.
  :next           save and go to the next step
  :save           save now
  :mode type|ink  switch the answer mode
  :ink <file>     attach a PNG drawing
  :clear-ink      remove the drawing
  :show           show the step again
  :quit           save and leave
Start a line with "::" to type a literal ":".`

const completeHelp = `The journey is complete.
  :copy             copy the ledger to the clipboard
  :download [dir]   save the ledger as a text file
  :restart          clear every answer and start over
  :quit             leave`

// RunSession drives the journal from line input until the reader is exhausted,
// :quit is typed or ctx is cancelled.
func RunSession(ctx context.Context, eng *journey.Engine, in io.Reader, out io.Writer, opts RunOptions) error {
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := readLines(readCtx, in)
	r := &runner{eng: eng, out: out, opts: opts, lines: lines}
	if r.opts.Exporter == nil {
		r.opts.Exporter = NewExporter(artifact.DefaultFilename)
	}
	if r.opts.Logger == nil {
		r.opts.Logger = logging.NewNop()
	}

	for {
		view, err := eng.Current(ctx)
		if err != nil {
			return handleExecutionError(err)
		}

		var done bool
		if view.Complete {
			done, err = r.complete(ctx)
		} else {
			done, err = r.step(ctx, view)
		}
		if err != nil {
			return handleExecutionError(err)
		}
		if done {
			return nil
		}
	}
}

type runner struct {
	eng   *journey.Engine
	out   io.Writer
	opts  RunOptions
	lines <-chan string
}

// next blocks for the next input line. ok is false at end of input.
func (r *runner) next(ctx context.Context) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-r.lines:
		return line, ok, nil
	}
}

func (r *runner) status(msg string, failed bool) {
	if r.opts.Color {
		msg = tui.Status(msg, failed)
	}
	printSystemMessage(r.out, "%s", msg)
}

func (r *runner) show(view domain.StepView) {
	fmt.Fprintln(r.out, tui.RenderStep(view, r.opts.Render))
}

// step edits one step. It returns done when the session should end.
func (r *runner) step(ctx context.Context, view domain.StepView) (bool, error) {
	view, err := r.eng.Visit(ctx, view.Step.ID)
	if err != nil {
		return false, err
	}
	r.show(view)

	ed := r.eng.Edit(view)
	defer ed.Close()
	id := view.Step.ID

	for {
		line, ok, err := r.next(ctx)
		if err != nil {
			if ferr := ed.Flush(context.WithoutCancel(ctx)); ferr != nil {
				r.opts.Logger.Warn("Final save failed", "step", id, "err", ferr)
			}
			return true, err
		}
		if !ok {
			return true, ed.Flush(ctx)
		}

		cmd, arg, isCmd := parseCommand(line)
		if !isCmd {
			clean, err := sanitize.Answer(arg)
			if err != nil {
				r.status(err.Error(), true)
				continue
			}
			ed.Append(clean)
			continue
		}

		switch cmd {
		case "next":
			if _, err := ed.Next(ctx); err != nil {
				return false, err
			}
			return false, nil
		case "save":
			if _, err := ed.Save(ctx); err != nil {
				return false, err
			}
			r.status(StatusSaved, false)
		case "mode":
			mode, err := domain.ParseMode(arg)
			if err != nil {
				r.status(err.Error(), true)
				continue
			}
			if err := ed.Flush(ctx); err != nil {
				return false, err
			}
			if _, err := r.eng.SetMode(ctx, id, mode); err != nil {
				return false, err
			}
			r.status("Mode: "+string(mode), false)
		case "ink":
			ink, err := inkFromFile(arg)
			if err != nil {
				r.status(err.Error(), true)
				continue
			}
			if _, err := r.eng.SetInk(ctx, id, ink); err != nil {
				return false, err
			}
			r.status("Drawing saved.", false)
		case "clear-ink":
			if _, err := r.eng.ClearInk(ctx, id); err != nil {
				return false, err
			}
			r.status("Drawing cleared.", false)
		case "show":
			if err := ed.Flush(ctx); err != nil {
				return false, err
			}
			current, err := r.eng.Visit(ctx, id)
			if err != nil {
				return false, err
			}
			r.show(current)
		case "quit":
			return true, ed.Flush(ctx)
		case "help":
			fmt.Fprintln(r.out, stepHelp)
		default:
			r.status(fmt.Sprintf("Unknown command :%s (try :help)", cmd), true)
		}
	}
}

// complete shows the artifact and serves the export commands.
func (r *runner) complete(ctx context.Context) (bool, error) {
	text, err := r.eng.Compile(ctx)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(r.out, text)
	fmt.Fprintln(r.out, completeHelp)

	for {
		line, ok, err := r.next(ctx)
		if err != nil {
			return true, err
		}
		if !ok {
			return true, nil
		}

		cmd, arg, isCmd := parseCommand(line)
		if !isCmd {
			continue
		}
		switch cmd {
		case "copy":
			msg, err := r.opts.Exporter.Copy(text)
			r.status(msg, err != nil)
		case "download":
			path, err := r.opts.Exporter.Download(arg, text)
			if err != nil {
				r.status(fmt.Sprintf("Download failed: %v", err), true)
				continue
			}
			r.status(fmt.Sprintf("%s %s", StatusSaved, path), false)
		case "restart":
			if _, err := r.eng.Restart(ctx); err != nil {
				return false, err
			}
			return false, nil
		case "quit":
			return true, nil
		case "help":
			fmt.Fprintln(r.out, completeHelp)
		default:
			r.status(fmt.Sprintf("Unknown command :%s (try :help)", cmd), true)
		}
	}
}

// parseCommand splits ":cmd arg". A leading "::" escapes a literal colon.
func parseCommand(line string) (cmd, arg string, ok bool) {
	if strings.HasPrefix(line, "::") {
		return "", line[1:], false
	}
	if !strings.HasPrefix(line, ":") {
		return "", line, false
	}
	fields := strings.SplitN(strings.TrimSpace(line[1:]), " ", 2)
	cmd = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	return cmd, arg, true
}

// inkFromFile reads a PNG drawing into a data URL.
func inkFromFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("usage: :ink <png-file>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read drawing: %w", err)
	}
	return InkDataURL(data)
}

// InkDataURL encodes a PNG image the way drawings are stored in the ledger.
func InkDataURL(data []byte) (string, error) {
	if ct := http.DetectContentType(data); ct != "image/png" {
		return "", fmt.Errorf("drawing must be a PNG image, got %s", ct)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/video"
	"github.com/charmbracelet/glamour"
)

// FallbackQuestion is shown for steps without a question.
const FallbackQuestion = "Write what comes up."

// NewRenderer returns a function that renders markdown using glamour.
// Without a usable terminal style it returns the markdown unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StepMarkdown lays out a step for the terminal.
func StepMarkdown(view domain.StepView) string {
	step := view.Step
	var b strings.Builder

	title := step.Title
	if title == "" {
		title = step.ID
	}
	fmt.Fprintf(&b, "# %d/%d %s\n\n", view.Position, view.Total, title)

	question := step.Question
	if question == "" {
		question = FallbackQuestion
	}
	fmt.Fprintf(&b, "> %s\n\n", question)

	if step.PromptHint != "" {
		fmt.Fprintf(&b, "*%s*\n\n", step.PromptHint)
	}
	if step.VideoURL != "" {
		fmt.Fprintf(&b, "Video: %s\n\n", video.EmbedURL(step.VideoURL))
	}
	if step.Transcript != "" {
		fmt.Fprintf(&b, "## Transcript\n\n%s\n\n", step.Transcript)
	}

	entry := view.Entry
	if entry.IsInk() {
		b.WriteString("Mode: **ink**")
		if entry.HasInk() {
			b.WriteString(" (drawing saved)")
		}
		b.WriteString("\n\n")
	}
	if entry.Text != "" {
		fmt.Fprintf(&b, "## Your answer so far\n\n%s\n", entry.Text)
	}
	return b.String()
}

// RenderStep renders a step with render, falling back to the raw markdown.
func RenderStep(view domain.StepView, render func(string) (string, error)) string {
	md := StepMarkdown(view)
	if render == nil {
		return md
	}
	out, err := render(md)
	if err != nil {
		return md
	}
	return out
}

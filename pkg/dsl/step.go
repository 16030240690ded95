package dsl

import "github.com/aretw0/journey/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step     domain.Step
	linked   bool
	terminal bool
}

// Title sets the heading of the step.
func (s *StepBuilder) Title(title string) *StepBuilder {
	s.step.Title = title
	return s
}

// Question sets the question asked at this step.
func (s *StepBuilder) Question(question string) *StepBuilder {
	s.step.Question = question
	return s
}

// Hint sets the placeholder shown in an empty answer.
func (s *StepBuilder) Hint(hint string) *StepBuilder {
	s.step.PromptHint = hint
	return s
}

// Video attaches a video URL.
func (s *StepBuilder) Video(url string) *StepBuilder {
	s.step.VideoURL = url
	return s
}

// Transcript sets the text shown with the video.
func (s *StepBuilder) Transcript(text string) *StepBuilder {
	s.step.Transcript = text
	return s
}

// Go sets the step that follows this one.
func (s *StepBuilder) Go(target string) *StepBuilder {
	s.step.Next = target
	s.linked = true
	s.terminal = false
	return s
}

// Terminal marks the step as the last one: Next from here completes the journey.
func (s *StepBuilder) Terminal() *StepBuilder {
	s.step.Next = ""
	s.linked = false
	s.terminal = true
	return s
}

// Build returns the underlying domain.Step as configured so far.
func (s *StepBuilder) Build() domain.Step {
	return s.step
}

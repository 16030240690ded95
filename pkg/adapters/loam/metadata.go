package loam

// StepMetadata is the frontmatter of a step document.
// The document body becomes the transcript unless the frontmatter sets one.
type StepMetadata struct {
	ID         string `json:"id" mapstructure:"id"`
	Title      string `json:"title" mapstructure:"title"`
	Question   string `json:"question" mapstructure:"question"`
	PromptHint string `json:"prompt_hint" mapstructure:"prompt_hint"`
	VideoURL   string `json:"video_url" mapstructure:"video_url"`
	Transcript string `json:"transcript" mapstructure:"transcript"`
	Next       string `json:"next" mapstructure:"next"`

	// Order positions the step in the catalog. Strict mode hands numbers over as
	// json.Number, so it is decoded loosely and converted by orderOf.
	Order any `json:"order" mapstructure:"order"`
}

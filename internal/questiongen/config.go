package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds how many times a question is regenerated after a
	// retryable validation failure.
	MaxAttempts int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps the prior questions listed in the prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MultiPartValidator{},
			&MarkTotalValidator{},
		},
		MaxAttempts:       3,
		MaxTokens:         2048,
		Temperature:       0.7,
		MaxPriorQuestions: 8,
	}
}

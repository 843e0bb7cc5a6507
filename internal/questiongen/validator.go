package questiongen

import "fmt"

// Validator checks a generated question. Implementations must be
// stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier such as "structural" or "multi-part".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question, input GenerateInput) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

package questiongen

import "context"

// Generator produces exam questions.
type Generator interface {
	// Generate produces a single validated question for input.Criteria.
	Generate(ctx context.Context, input GenerateInput) (*Question, error)
}

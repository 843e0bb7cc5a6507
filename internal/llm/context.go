package llm

import "context"

// Purposes recorded on every logged request.
const (
	PurposeQuestionGen = "question-gen"
	PurposeMarking     = "answer-marking"
	PurposeWarmup      = "bank-warmup"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx for the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithDefaultPurpose labels ctx only when no purpose has been set yet, so
// callers such as the warm-up job keep their own label.
func WithDefaultPurpose(ctx context.Context, purpose string) context.Context {
	if _, ok := ctx.Value(purposeKey{}).(string); ok {
		return ctx
	}
	return WithPurpose(ctx, purpose)
}

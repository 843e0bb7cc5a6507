package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/pastpapers/internal/markscheme"
)

// MultiPartValidator rejects questions whose mark scheme skips a labelled
// part. It also fills Question.Parts.
type MultiPartValidator struct{}

func (v *MultiPartValidator) Name() string { return "multi-part" }

func (v *MultiPartValidator) Validate(q *Question, _ GenerateInput) *ValidationError {
	res := markscheme.ValidateParts(q.Text, q.MarkScheme)
	q.Parts = res.QuestionParts
	if res.IsComplete {
		return nil
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("mark scheme has no entries for parts %s", strings.Join(res.MissingParts, ", ")),
		Retryable: true,
	}
}

package questiongen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/pastpapers/internal/markscheme"
)

const (
	maxQuestionLen = 3000
	maxSolutionLen = 6000
	maxTotalMarks  = 100
)

// StructuralValidator checks that required fields are present and within
// limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	switch {
	case strings.TrimSpace(q.Text) == "":
		return fail("question_text is empty")
	case len(q.Text) > maxQuestionLen:
		return fail(fmt.Sprintf("question_text exceeds %d characters", maxQuestionLen))
	case strings.TrimSpace(q.Solution) == "":
		return fail("solution is empty")
	case len(q.Solution) > maxSolutionLen:
		return fail(fmt.Sprintf("solution exceeds %d characters", maxSolutionLen))
	case q.TotalMarks < 1 || q.TotalMarks > maxTotalMarks:
		return fail(fmt.Sprintf("total_marks must be between 1 and %d", maxTotalMarks))
	case len(q.MarkScheme) == 0 || slices.Equal(q.MarkScheme, []string{markscheme.UnparsedPlaceholder}):
		return fail("mark_scheme is empty")
	}
	return nil
}

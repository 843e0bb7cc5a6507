package questiongen

import (
	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/markscheme"
)

// Question is a generated exam question with its mark scheme.
type Question struct {
	// Text is the full question as shown to the student, including part
	// labels such as "(a)" and "(b)" for multi-part questions.
	Text string

	// Parts lists the part labels found in Text, empty for a single-part
	// question.
	Parts []string

	// MarkScheme holds one marking point per entry, each led by a code
	// such as "M1" or "A1".
	MarkScheme []string

	// TotalMarks is the total the question declares. It is authoritative
	// even when the mark scheme adds up differently.
	TotalMarks int

	// Solution is the worked solution.
	Solution string

	Difficulty catalog.Difficulty
	Criteria   catalog.Criteria

	// Model is the LLM model that produced the question.
	Model string

	// Report is the mark-scheme consistency check, attached by
	// MarkTotalValidator.
	Report *markscheme.Report
}

// GenerateInput holds all context needed to generate a question.
type GenerateInput struct {
	Criteria catalog.Criteria

	// PriorQuestions are texts of questions already stored for the same
	// criteria, used to steer the model away from repeats.
	PriorQuestions []string
}

package questiongen

import (
	"github.com/rs/zerolog/log"

	"github.com/abhisek/pastpapers/internal/markscheme"
)

// MarkTotalValidator attaches the mark-scheme consistency report. It never
// rejects a question: the declared total stands and a mismatch is only
// flagged for review.
type MarkTotalValidator struct{}

func (v *MarkTotalValidator) Name() string { return "mark-total" }

func (v *MarkTotalValidator) Validate(q *Question, input GenerateInput) *ValidationError {
	report := markscheme.CheckConsistency(q.Text, q.MarkScheme, q.TotalMarks)
	q.Report = &report
	if report.TotalMismatch {
		log.Info().
			Str("criteria", input.Criteria.String()).
			Int("declared", report.DeclaredTotal).
			Int("computed", report.ComputedTotal).
			Msg("mark scheme total differs from declared total")
	}
	return nil
}

package markscheme

import "fmt"

// Report is the result of checking a question against its mark scheme.
type Report struct {
	DeclaredTotal int         `json:"declared_total"`
	ComputedTotal int         `json:"computed_total"`
	Total         int         `json:"total"`
	TotalMismatch bool        `json:"total_mismatch"`
	Points        []Point     `json:"points"`
	UnparsedLines int         `json:"unparsed_lines"`
	Parts         PartsResult `json:"parts"`
}

// CheckConsistency sums the mark-scheme points and compares them with the
// declared total. The declared total always wins: a disagreement is
// reported, never corrected.
func CheckConsistency(question string, scheme []string, declaredTotal int) Report {
	points, computed := SumPoints(scheme)
	unparsed := 0
	for _, p := range points {
		if !p.Parsed {
			unparsed++
		}
	}
	return Report{
		DeclaredTotal: declaredTotal,
		ComputedTotal: computed,
		Total:         declaredTotal,
		TotalMismatch: computed != declaredTotal,
		Points:        points,
		UnparsedLines: unparsed,
		Parts:         ValidateParts(question, scheme),
	}
}

// Valid reports whether the scheme matches the declared total and covers
// every question part.
func (r Report) Valid() bool {
	return !r.TotalMismatch && r.Parts.IsComplete
}

// Issues lists the problems found, one sentence each.
func (r Report) Issues() []string {
	var issues []string
	if r.TotalMismatch {
		issues = append(issues, fmt.Sprintf("mark scheme awards %d marks but the question declares %d", r.ComputedTotal, r.DeclaredTotal))
	}
	for _, p := range r.Parts.MissingParts {
		issues = append(issues, fmt.Sprintf("no mark scheme entry for part %s", p))
	}
	if r.UnparsedLines > 0 {
		issues = append(issues, fmt.Sprintf("%d line(s) without a mark code were counted as 1 mark", r.UnparsedLines))
	}
	return issues
}

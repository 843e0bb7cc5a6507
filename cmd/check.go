package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/markscheme"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.json>",
	Short: "Check a question's mark scheme against its declared total and parts",
	Long: `Check reads a JSON object with "question", "mark_scheme" and "total_marks"
and reports whether the mark scheme adds up to the declared total and covers
every question part. mark_scheme may be an array of points or one string with
a point per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "Print the full report as JSON")
}

type checkInput struct {
	Question   string          `json:"question"`
	MarkScheme json.RawMessage `json:"mark_scheme"`
	TotalMarks int             `json:"total_marks"`
}

// schemeLines accepts either a JSON array of strings or a single string.
func schemeLines(raw json.RawMessage) ([]string, error) {
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("mark_scheme must be a string or an array of strings")
	}
	return markscheme.ParseLines(text), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var in checkInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	lines, err := schemeLines(in.MarkScheme)
	if err != nil {
		return err
	}

	report := markscheme.CheckConsistency(in.Question, lines, in.TotalMarks)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(headingStyle.Render("Mark scheme check"))
	fmt.Println(rule(60))
	for _, p := range report.Points {
		code := p.Code
		if !p.Parsed {
			code = dimStyle.Render("(1?)")
		}
		fmt.Printf("  %-6s %s\n", code, p.Line)
	}
	fmt.Println(rule(60))
	fmt.Printf("%s total: declared %d, scheme %d\n", mark(!report.TotalMismatch), report.DeclaredTotal, report.ComputedTotal)
	if len(report.Parts.QuestionParts) > 0 {
		fmt.Printf("%s parts: %v covered by %v\n", mark(report.Parts.IsComplete), report.Parts.QuestionParts, report.Parts.SchemeParts)
	}
	for _, issue := range report.Issues() {
		fmt.Println(failStyle.Render("! " + issue))
	}
	if !report.Valid() {
		return fmt.Errorf("mark scheme is inconsistent")
	}
	return nil
}

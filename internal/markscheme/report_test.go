package markscheme

import (
	"slices"
	"testing"
)

func TestCheckConsistency_Matching(t *testing.T) {
	r := CheckConsistency("Solve 2x = 8.", []string{"M1 divide by 2", "A1 x = 4"}, 2)
	if r.TotalMismatch {
		t.Error("expected no mismatch")
	}
	if r.ComputedTotal != 2 || r.Total != 2 {
		t.Errorf("expected totals 2/2, got computed %d total %d", r.ComputedTotal, r.Total)
	}
	if !r.Valid() {
		t.Errorf("expected valid report, issues: %v", r.Issues())
	}
	if len(r.Issues()) != 0 {
		t.Errorf("expected no issues, got %v", r.Issues())
	}
}

func TestCheckConsistency_DeclaredTotalWins(t *testing.T) {
	for _, declared := range []int{1, 3, 5, 10} {
		r := CheckConsistency("Solve.", []string{"M1", "A1", "B1"}, declared)
		if r.Total != declared {
			t.Errorf("declared %d: Total = %d", declared, r.Total)
		}
		if r.ComputedTotal != 3 {
			t.Errorf("declared %d: ComputedTotal = %d, want 3", declared, r.ComputedTotal)
		}
		if r.TotalMismatch != (declared != 3) {
			t.Errorf("declared %d: TotalMismatch = %v", declared, r.TotalMismatch)
		}
	}
}

func TestCheckConsistency_Issues(t *testing.T) {
	r := CheckConsistency("(a) one (b) two", []string{"(a) M1 method", "award for answer"}, 4)
	if r.Valid() {
		t.Fatal("expected invalid report")
	}
	if r.UnparsedLines != 1 {
		t.Errorf("expected 1 unparsed line, got %d", r.UnparsedLines)
	}
	if !slices.Equal(r.Parts.MissingParts, []string{"(b)"}) {
		t.Errorf("expected missing (b), got %v", r.Parts.MissingParts)
	}
	if n := len(r.Issues()); n != 3 {
		t.Errorf("expected 3 issues, got %d: %v", n, r.Issues())
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"bullets and heading", "Mark scheme:\n- M1 expand\n\n* A1 x = 2\n", []string{"M1 expand", "A1 x = 2"}},
		{"crlf", "M1 method\r\nA1 answer", []string{"M1 method", "A1 answer"}},
		{"heading kept mid-text", "M1 method\nMark scheme:", []string{"M1 method", "Mark scheme:"}},
		{"empty", "", []string{UnparsedPlaceholder}},
		{"only bullets", "  \n - \n*", []string{UnparsedPlaceholder}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLines(tt.raw)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseLines(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

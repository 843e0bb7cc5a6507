package markscheme

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Shared with linePrefixRe so PointValue and ValidateParts agree on what
// a part label looks like.
const (
	bullet       = `[-*•·]`
	labelLetters = `[a-zA-Z]{1,4}`
	bareLabel    = labelLetters + `\)`
)

var (
	labelRe     = regexp.MustCompile(`\((` + labelLetters + `)\)`)
	bareLabelRe = regexp.MustCompile(`^(\s*(?:` + bullet + `\s*)?)(` + labelLetters + `)\)`)
	stepRe      = regexp.MustCompile(`(?i)\bstep\s+(\d+)`)
	numberedRe  = regexp.MustCompile(`(?m)^\s*(\d+)\.\s`)
)

var romanNumerals = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6,
	"vii": 7, "viii": 8, "ix": 9, "x": 10, "xi": 11, "xii": 12,
}

// PartsResult reports which question parts the mark scheme covers.
type PartsResult struct {
	QuestionParts []string `json:"question_parts"`
	SchemeParts   []string `json:"scheme_parts"`
	MissingParts  []string `json:"missing_parts"`
	IsComplete    bool     `json:"is_complete"`
}

// ExtractParts returns the part labels found in text in first-seen order
// without duplicates. Lettered and roman labels such as "(a)" and "(ii)"
// take precedence; only when there are none is "Step N" numbering used,
// and after that line-leading "N." numbering.
func ExtractParts(text string) []string {
	if parts := letteredParts(text, nil); len(parts) > 0 {
		return parts
	}
	if parts := alternativeParts(text, stepRe, "Step %d"); len(parts) > 0 {
		return parts
	}
	return alternativeParts(text, numberedRe, "%d.")
}

// letteredParts finds "(a)"-style labels. A label glued to a preceding
// letter or digit, as in "f(x)" or "2(a)", is function or product
// notation rather than a part. Labels must run in sequence: "(c)" counts
// only after "(b)", "(iii)" only after "(ii)", which keeps units such as
// "(m)" or "(s)" out of the result. Labels listed in known are accepted
// out of sequence.
func letteredParts(text string, known []string) []string {
	var out []string
	letters := make(map[byte]bool)
	romans := make(map[int]bool)

	for _, m := range labelRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > 0 && isWordByte(text[m[0]-1]) {
			continue
		}
		inner := strings.ToLower(text[m[2]:m[3]])

		accepted := false
		if len(inner) == 1 {
			c := inner[0]
			if c == 'a' || letters[c-1] {
				letters[c] = true
				accepted = true
			}
		}
		if n, ok := romanNumerals[inner]; ok && (n == 1 || romans[n-1]) {
			romans[n] = true
			accepted = true
		}
		label := "(" + inner + ")"
		if !accepted && !slices.Contains(known, label) {
			continue
		}
		if !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

func alternativeParts(text string, re *regexp.Regexp, format string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		label := fmt.Sprintf(format, n)
		if !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

// ValidateParts checks that every part labelled in the question has an
// entry in the mark scheme. A question with no "(a)"-style labels is a
// single-part question and is always complete. When the mark scheme uses
// only Step N / N. numbering, the Nth step covers the Nth question part.
func ValidateParts(question string, scheme []string) PartsResult {
	joined := strings.Join(bracketLabels(scheme), "\n")
	res := PartsResult{
		QuestionParts: letteredParts(question, nil),
		MissingParts:  []string{},
	}
	res.SchemeParts = letteredParts(joined, res.QuestionParts)
	if len(res.SchemeParts) == 0 {
		res.SchemeParts = ExtractParts(joined)
	}
	if len(res.QuestionParts) == 0 {
		res.IsComplete = true
		return res
	}

	covered := func(ordinal int, label string) bool {
		return slices.Contains(res.SchemeParts, label)
	}
	if len(res.SchemeParts) > 0 && !strings.HasPrefix(res.SchemeParts[0], "(") {
		numbers := make(map[int]bool, len(res.SchemeParts))
		for _, p := range res.SchemeParts {
			numbers[alternativeNumber(p)] = true
		}
		covered = func(ordinal int, _ string) bool { return numbers[ordinal] }
	}

	for i, label := range res.QuestionParts {
		if !covered(i+1, label) {
			res.MissingParts = append(res.MissingParts, label)
		}
	}
	res.IsComplete = len(res.MissingParts) == 0
	return res
}

// bracketLabels rewrites a line-leading "a)" or "ii)" label as "(a)" or
// "(ii)".
func bracketLabels(scheme []string) []string {
	out := make([]string, len(scheme))
	for i, line := range scheme {
		out[i] = bareLabelRe.ReplaceAllString(line, "$1($2)")
	}
	return out
}

// alternativeNumber extracts N from "Step N" or "N.".
func alternativeNumber(label string) int {
	label = strings.TrimSuffix(strings.TrimPrefix(label, "Step "), ".")
	n, _ := strconv.Atoi(label)
	return n
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

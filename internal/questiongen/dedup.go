package questiongen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// buildDedup formats prior questions for the prompt, keeping the first max
// entries. Returns "None" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[:max]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, oneLine(q, 300))
	}
	return strings.TrimRight(b.String(), "\n")
}

// oneLine collapses whitespace and truncates s to at most n bytes without
// splitting a character.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

package markscheme

import (
	"regexp"
	"strings"
)

// UnparsedPlaceholder stands in for a mark scheme with no usable lines.
const UnparsedPlaceholder = "Unable to parse mark scheme"

var (
	bulletRe = regexp.MustCompile(`^[-*•·]+\s*`)
	headerRe = regexp.MustCompile(`(?i)^(?:#+\s*)?mark\s*scheme\s*:?\s*$`)
)

// ParseLines splits free-text mark-scheme output into one entry per line.
// Bullets, blank lines and a leading "Mark scheme:" heading are dropped.
func ParseLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		if len(lines) == 0 && headerRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{UnparsedPlaceholder}
	}
	return lines
}

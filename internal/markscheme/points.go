package markscheme

import (
	"regexp"
	"strconv"
	"strings"
)

// Point is one mark-scheme line with its parsed value.
type Point struct {
	Line   string `json:"line"`
	Code   string `json:"code,omitempty"`
	Value  int    `json:"value"`
	Parsed bool   `json:"parsed"`
}

var (
	// Bullets and part labels that may precede the code, e.g. "- (a)(ii) M1".
	linePrefixRe = regexp.MustCompile(`^(?:` + bullet + `\s*|\(` + labelLetters + `\)\s*|` + bareLabel + `\s*|(?i:step)\s+\d+\s*[:.)-]?\s*|\d+\.\s+)+`)

	// Only the leading code counts, so "M1A1" is worth 1.
	codeRe = regexp.MustCompile(`^[\[(]?(SC|M|A|B)(\d+)`)
)

// PointValue returns the marks a mark-scheme line is worth. Lines without
// a recognizable leading code are worth 1 and report ok == false.
func PointValue(line string) (value int, ok bool) {
	p := parsePoint(line)
	return p.Value, p.Parsed
}

func parsePoint(line string) Point {
	trimmed := strings.TrimSpace(line)
	rest := linePrefixRe.ReplaceAllString(trimmed, "")

	m := codeRe.FindStringSubmatch(rest)
	if m == nil {
		return Point{Line: trimmed, Value: 1}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Point{Line: trimmed, Value: 1}
	}
	return Point{Line: trimmed, Code: m[1] + m[2], Value: n, Parsed: true}
}

// SumPoints parses every line and returns the points with their total.
func SumPoints(scheme []string) ([]Point, int) {
	points := make([]Point, 0, len(scheme))
	total := 0
	for _, line := range scheme {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p := parsePoint(line)
		points = append(points, p)
		total += p.Value
	}
	return points, total
}

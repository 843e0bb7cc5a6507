package markscheme

import "testing"

func TestPointValue(t *testing.T) {
	tests := []struct {
		line  string
		value int
		ok    bool
	}{
		{"M1 for correct method", 1, true},
		{"A2 correct answer", 2, true},
		{"B3", 3, true},
		{"SC1 special case for partial answer", 1, true},
		{"(a) M1 expands brackets", 1, true},
		{"- (a)(ii) A2 x = 3", 2, true},
		{"M1A1 for x = 2", 1, true},
		{"[B1] units", 1, true},
		{"Step 1: M1 factorise", 1, true},
		{"2. B2 states both roots", 2, true},
		{"b) A1 cao", 1, true},
		{"ii) M1 substitutes", 1, true},
		{"- C) B2 sketch", 2, true},
		{"Correct answer", 1, false},
		{"Any valid method", 1, false},
		{"", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := PointValue(tt.line)
			if got != tt.value || ok != tt.ok {
				t.Errorf("PointValue(%q) = %d, %v; want %d, %v", tt.line, got, ok, tt.value, tt.ok)
			}
		})
	}
}

func TestSumPoints(t *testing.T) {
	scheme := []string{"M1 method", "", "A2 answer", "  ", "explains result"}
	points, total := SumPoints(scheme)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if points[1].Code != "A2" {
		t.Errorf("expected code A2, got %q", points[1].Code)
	}
	if points[2].Parsed {
		t.Error("expected uncoded line to be unparsed")
	}
}

func TestSumPoints_CodedTotalsEqualSum(t *testing.T) {
	schemes := [][]string{
		{"M1", "A1"},
		{"B2", "B2", "SC1"},
		{"(a) M1 method", "(a) A1 answer", "(b) B3 sketch"},
		{"M4 full method", "A1 cao", "A1 ft", "B1 units", "B1 sf"},
	}
	for _, scheme := range schemes {
		want := 0
		for _, line := range scheme {
			v, ok := PointValue(line)
			if !ok {
				t.Fatalf("line %q should parse", line)
			}
			want += v
		}
		if _, got := SumPoints(scheme); got != want {
			t.Errorf("SumPoints(%v) = %d, want %d", scheme, got, want)
		}
	}
}

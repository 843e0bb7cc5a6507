package grading

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/store"
)

func testQuestion() *store.Question {
	return &store.Question{
		ID:         "q1",
		Text:       "Differentiate y = 3x^2 + 2x.",
		MarkScheme: []string{"M1 power rule applied", "A1 dy/dx = 6x + 2"},
		TotalMarks: 2,
		Solution:   "dy/dx = 6x + 2",
	}
}

func markJSON(marks int, feedback string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"marks_awarded":  marks,
		"points_awarded": []string{"M1 power rule applied"},
		"feedback":       feedback,
	})
	return b
}

func TestMark(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: markJSON(1, " Method right, constant term lost. ")})
	m := NewMarker(mock, DefaultConfig())

	res, err := m.Mark(context.Background(), testQuestion(), "dy/dx = 6x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MarksAwarded != 1 || res.MarksAvailable != 2 {
		t.Errorf("unexpected marks: %+v", res)
	}
	if res.Feedback != "Method right, constant term lost." {
		t.Errorf("feedback not trimmed: %q", res.Feedback)
	}

	msg := mock.Calls()[0].Messages[0].Content
	for _, want := range []string{"Question (2 marks):", "- A1 dy/dx = 6x + 2", "<<<\ndy/dx = 6x\n>>>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestMark_ClampsToTotal(t *testing.T) {
	tests := []struct {
		name    string
		awarded int
		want    int
	}{
		{"within range", 2, 2},
		{"over total", 7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: markJSON(tt.awarded, "ok")})
			res, err := NewMarker(mock, DefaultConfig()).Mark(context.Background(), testQuestion(), "answer")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.MarksAwarded != tt.want {
				t.Errorf("got %d, want %d", res.MarksAwarded, tt.want)
			}
		})
	}
}

func TestMark_TruncatesLongAnswers(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: markJSON(0, "none")})
	cfg := DefaultConfig()
	cfg.MaxAnswerLen = 10
	if _, err := NewMarker(mock, cfg).Mark(context.Background(), testQuestion(), strings.Repeat("z", 50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := mock.Calls()[0].Messages[0].Content
	if strings.Contains(msg, strings.Repeat("z", 11)) {
		t.Error("answer was not truncated")
	}
}

func TestMark_TruncatesOnCharacterBoundary(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: markJSON(0, "none")})
	cfg := DefaultConfig()
	cfg.MaxAnswerLen = 5
	if _, err := NewMarker(mock, cfg).Mark(context.Background(), testQuestion(), strings.Repeat("√", 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := mock.Calls()[0].Messages[0].Content
	if !utf8.ValidString(msg) {
		t.Fatal("prompt contains a split character")
	}
	if !strings.Contains(msg, strings.Repeat("√", 5)) || strings.Contains(msg, strings.Repeat("√", 6)) {
		t.Errorf("expected exactly 5 characters of the answer in %q", msg)
	}
}

func TestMark_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider()
	if _, err := NewMarker(mock, DefaultConfig()).Mark(context.Background(), testQuestion(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

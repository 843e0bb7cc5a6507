package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/pastpapers/internal/store"
)

type recordingSink struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (s *recordingSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, data)
	return s.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	sink := &recordingSink{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	p := WithLogging(mock, "mock", sink)

	ctx := WithPurpose(context.Background(), PurposeQuestionGen)
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	e := sink.events[0]
	if !e.Success || e.Purpose != PurposeQuestionGen || e.InputTokens != 12 || e.OutputTokens != 3 {
		t.Errorf("unexpected event: %+v", e)
	}
	if !strings.Contains(e.RequestBody, "[system]\nsys") || !strings.Contains(e.RequestBody, "[user]\nhi") {
		t.Errorf("request body not captured: %q", e.RequestBody)
	}
	if e.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureAndSurvivesSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	p := WithLogging(mock, "mock", sink)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Success || sink.events[0].ErrorMessage != "boom" {
		t.Fatalf("unexpected events: %+v", sink.events)
	}
	if sink.events[0].ErrorKind != string(KindOther) {
		t.Errorf("error kind = %q, want %q", sink.events[0].ErrorKind, KindOther)
	}
}

func TestLoggingProvider_RecordsErrorKind(t *testing.T) {
	sink := &recordingSink{}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	p := WithLogging(mock, "mock", sink)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if got := sink.events[0].ErrorKind; got != string(KindRateLimit) {
		t.Errorf("error kind = %q, want %q", got, KindRateLimit)
	}
}

func TestLoggingProvider_NilSink(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), "mock", nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

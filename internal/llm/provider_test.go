package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	mock.AddResponse(MockResponse{Err: errors.New("boom")})

	req := Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hello"}}}
	_, _ = mock.Generate(context.Background(), req)
	_, err := mock.Generate(context.Background(), req)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected queued error, got %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 2 || mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].System != "sys" || calls[0].Messages[0].Content != "hello" {
		t.Errorf("unexpected recorded request: %+v", calls[0])
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
	ctx = WithPurpose(ctx, PurposeMarking)
	if got := PurposeFrom(WithDefaultPurpose(ctx, PurposeWarmup)); got != PurposeMarking {
		t.Errorf("default purpose overrode explicit one: %q", got)
	}
	if got := PurposeFrom(WithDefaultPurpose(context.Background(), PurposeWarmup)); got != PurposeWarmup {
		t.Errorf("expected %q, got %q", PurposeWarmup, got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err       error
		want      ErrorKind
		transient bool
	}{
		{nil, "", false},
		{&ErrRateLimit{Err: errors.New("429")}, KindRateLimit, true},
		{fmt.Errorf("generate: %w", &ErrProviderUnavailable{}), KindUnavailable, true},
		{&ErrInvalidResponse{Err: errors.New("bad")}, KindInvalidResponse, true},
		{&ErrMaxTokensExceeded{}, KindMaxTokens, false},
		{context.DeadlineExceeded, KindTimeout, false},
		{fmt.Errorf("wrapped: %w", context.Canceled), KindCanceled, false},
		{errors.New("connection reset"), KindOther, true},
	}
	for _, tt := range tests {
		got := KindOf(tt.err)
		if got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
		if got.Transient() != tt.transient {
			t.Errorf("%q.Transient() = %v, want %v", got, got.Transient(), tt.transient)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ErrProviderUnavailable{}, "LLM provider unavailable"},
		{&ErrRateLimit{Err: errors.New("429")}, "rate limited: 429"},
		{&ErrRateLimit{RetryAfter: 2 * time.Second, Err: errors.New("429")}, "rate limited (retry after 2s): 429"},
		{&ErrMaxTokensExceeded{Content: json.RawMessage(`{"a":`)}, "LLM response truncated at max tokens after 5 bytes"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}

	inner := errors.New("down")
	if !errors.Is(&ErrProviderUnavailable{Err: inner}, inner) {
		t.Error("ErrProviderUnavailable should unwrap")
	}
	if !errors.Is(&ErrRateLimit{Err: inner}, inner) {
		t.Error("ErrRateLimit should unwrap")
	}
}

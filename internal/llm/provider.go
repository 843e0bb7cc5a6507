package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single entry point for talking to a language model.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider asks for structured output and validates Content
	// against the schema before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider was configured with.
	ModelID() string
}

// Request is a provider-neutral chat request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, requests JSON conforming to the definition.
	// Without it the response Content is the raw model text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema definition. Name is kebab-case and doubles
// as the OpenAI schema name and the validator cache key.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the provider-neutral result of a Generate call.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is one of "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

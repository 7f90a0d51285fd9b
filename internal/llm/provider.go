package llm

import (
	"context"
	"encoding/json"
)

// Purposes label requests in the event log.
const (
	PurposeWordGen = "word-gen"
)

// Provider generates structured JSON from a prompt.
type Provider interface {
	// Generate sends req and returns the response. When req.Schema is set
	// the content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider family, e.g. "anthropic".
	Name() string

	// ModelID is the configured model identifier.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	System string

	// Messages is usually a single user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON matching it.
	Schema *Schema

	MaxTokens int

	// Temperature ranges 0.0 to 1.0. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema a response must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "word-list". Providers that support named
	// response formats send it along.
	Name        string
	Description string
	Definition  map[string]any

	// Strict turns on OpenAI strict mode. Only valid for schemas where
	// every property is required and additionalProperties is false.
	Strict bool
}

// Response is the provider's output.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage is token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt is a single-turn request helper.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// finish turns raw provider output into a Response, rejecting truncated
// output and validating against the request schema.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

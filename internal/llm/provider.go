// Package llm wraps the generative-model vendors behind one Provider
// interface. Problem generation asks for schema-constrained JSON; the
// enrichment prompts ask for plain text.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider sends a single request to a model and returns its output.
type Provider interface {
	// Generate runs req. When req.Schema is set the response Content is
	// JSON that has already been validated against it; otherwise Content
	// holds the model's text verbatim.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request is one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Every caller in this module sends a
	// single user message.
	Messages []Message

	// Schema, when non-nil, switches the provider to its native structured
	// output mode.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the vendor default in place.
	Temperature float64
}

// UserRequest builds a single-turn request.
func UserRequest(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the response must satisfy.
type Schema struct {
	// Name identifies the schema to the vendor and keys the compiled
	// schema cache. Kebab-case, e.g. "problem-set".
	Name string

	Description string

	// Definition is the schema document.
	Definition map[string]any
}

// Response is a provider's answer.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalised to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as trimmed plain text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage is token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive either schema-validated
// JSON or free-form text.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its response.
	// When the request's Schema is set, the provider uses its native
	// structured output mechanism and the response Content is validated
	// JSON. Otherwise Content holds the raw reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system instruction. Sets the LLM's role and grounding.
	System string

	// Messages is the conversation. Plan generation sends a single user
	// message; tutor chat replays the transcript followed by the new
	// user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw text reply.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
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

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "study-plan".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// requested, raw reply text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns the response content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

package ai

import (
	"context"
	"errors"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ErrNoContent is returned when the model produced no usable output.
var ErrNoContent = errors.New("ai: model returned no content")

// ChatMessage is a single turn of a conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextRequest asks for a free-text completion. The response is a plain
// string with surrounding whitespace trimmed.
type TextRequest struct {
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// JSONRequest asks for structured output conforming to Schema.
type JSONRequest struct {
	System []string
	Prompt string
	Schema *Schema
}

// SchemaType enumerates the primitive types a response schema can declare.
type SchemaType int

const (
	TypeString SchemaType = iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeArray
	TypeObject
)

// Schema declares the shape of a structured response. It is a minimal,
// provider-neutral subset translated to the Gemini schema at call time.
type Schema struct {
	Type       SchemaType
	Items      *Schema
	Properties map[string]*Schema
	Enum       []string
	Required   []string
}

// Client is the external text/structured-generation collaborator.
// Implementations must be safe for concurrent use.
type Client interface {
	// GenerateText returns a trimmed free-text reply.
	GenerateText(ctx context.Context, req TextRequest) (string, error)

	// GenerateJSON decodes the model's structured reply into out.
	// A reply that does not conform to the declared schema is an error;
	// callers fail soft per their own contracts.
	GenerateJSON(ctx context.Context, req JSONRequest, out any) error
}

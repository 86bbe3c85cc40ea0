package ai

import (
	"context"
	"encoding/json"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
)

// Vendor is an LLM backend able to answer a single request, optionally
// choosing one of the declared tools.
type Vendor interface {
	GetName() string
	Send(ctx context.Context, request *Request) (*Completion, error)
}

// ToolDeclaration advertises a callable tool to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
	Strict      bool
}

// Request is one model call: system instructions, the conversation text and
// the tools the model may pick from. A request without tools is a plain
// completion.
type Request struct {
	Instructions string
	Input        string
	Tools        []ToolDeclaration
	Options      *domain.ChatOptions
}

// ToolCall is the model's request to run a named tool.
type ToolCall struct {
	CallID    string
	Name      string
	Arguments json.RawMessage
}

// Completion is the model's answer. ToolCall is nil when the model replied
// with text only. Vendors keep only the first tool call of a response.
type Completion struct {
	Text     string
	ToolCall *ToolCall
}

// HasToolCall reports whether the model asked for a tool.
func (c *Completion) HasToolCall() bool {
	return c != nil && c.ToolCall != nil && c.ToolCall.Name != ""
}

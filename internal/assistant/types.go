// Wire types for the Anthropic Messages API, plus the tool contract the
// chat relay feeds with catalog lookups.

package assistant

import (
	"context"
	"encoding/json"
)

// Message is one turn in a conversation. Content is always the block form so
// tool_use and tool_result turns round-trip unchanged.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a single content element of a message. The populated
// fields depend on Type ("text", "tool_use", "tool_result").
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Tool is a callable exposed to the model. Run executes the tool locally
// when the model requests it.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Run         func(ctx context.Context, input json.RawMessage) (any, error)
}

// Conversation is the accumulated state of one chat session: a fixed system
// prompt and tool set, plus the message history grown turn by turn.
type Conversation struct {
	Model    string
	System   string
	Tools    []Tool
	Messages []Message
}

// toolParam is the wire shape of a tool definition.
type toolParam struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// messagesRequest is the request body for the Messages API.
type messagesRequest struct {
	Model     string      `json:"model"`
	MaxTokens int         `json:"max_tokens"`
	System    string      `json:"system,omitempty"`
	Messages  []Message   `json:"messages"`
	Tools     []toolParam `json:"tools,omitempty"`
	Stream    bool        `json:"stream,omitempty"`
}

// messagesResponse is a complete (non-streaming) Messages API response. The
// stream parser assembles the same shape from incremental events.
type messagesResponse struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// errorResponse is the API's error envelope.
type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

package core

import "github.com/google/uuid"

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleSystem carries agent instructions.
	RoleSystem Role = "system"
	// RoleUser carries the task prompt and injected feedback.
	RoleUser Role = "user"
	// RoleAssistant carries model output (text and/or a tool call).
	RoleAssistant Role = "assistant"
	// RoleTool carries the textual result of an executed tool call.
	RoleTool Role = "tool"
)

// Message is one entry in an agent's transcript. A message holds plain text,
// an assistant-issued tool call, or a tool result correlated by ToolCallID.
// After emission messages are treated as immutable.
type Message struct {
	Role       Role      `json:"role"`
	Text       string    `json:"text,omitempty"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	ToolName   string    `json:"tool_name,omitempty"`
}

// ToolCall is a structured request from the active agent to invoke a named
// tool. Arguments is the raw JSON payload produced by the model; it is
// validated by the dispatcher, not trusted here.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolResult is the textual outcome of an executed tool call. Failures are
// encoded as result text with Success=false rather than errors so the model
// can reason about them and self-correct.
type ToolResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// UserMessage builds a user-authored text message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage builds an assistant text message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// AssistantToolCallMessage builds an assistant message carrying a tool call.
func AssistantToolCallMessage(text string, call ToolCall) Message {
	c := call
	return Message{Role: RoleAssistant, Text: text, ToolCall: &c}
}

// ToolResultMessage builds a tool message carrying the result of the call
// identified by id.
func ToolResultMessage(id, name string, result ToolResult) Message {
	return Message{Role: RoleTool, Text: result.Text, ToolCallID: id, ToolName: name}
}

// NewID generates a unique identifier used for runs and tool call correlation.
func NewID() string { return uuid.NewString() }

package model

import (
	"context"

	"github.com/hupe1980/reportmesh/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the turn engine.
type Request struct {
	// Instructions is the active agent's system prompt.
	Instructions string `json:"instructions"`
	// Messages is the agent's transcript in order.
	Messages []core.Message `json:"messages"`
	// Tools is the declared tool menu, including the handoff pseudo-tool.
	Tools []ToolDefinition `json:"tools,omitempty"`
}

// Reply is the provider's answer to one turn: free text, tool calls, or both.
type Reply struct {
	Text         string          `json:"text,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the turn engine to drive
// generation. A failed Complete is fatal for the run; the engine performs no
// retry of its own.
type Model interface {
	Complete(ctx context.Context, req Request) (Reply, error)

	// Info returns information about the model implementation.
	Info() Info
}

package tool

import "context"

// Tool defines the interface for capability-gated operations an agent may
// invoke during a run.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Validate their own arguments and return errors for misuse
//   - Be safe for sequential reuse across turns within one run
//
// A returned error is folded by the Dispatcher into a failed ToolResult; it
// never aborts the run. A returned string is the textual result handed back
// to the model.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to help it decide when to call.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments.
	Call(ctx context.Context, args map[string]any) (string, error)
}

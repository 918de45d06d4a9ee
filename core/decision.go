package core

// Decision represents one completion provider response, interpreted into a
// closed variant set. Concrete decision types implement the unexported
// isDecision marker so every consumer can switch exhaustively; anything
// outside this set is a protocol error, never silently ignored.
type Decision interface{ isDecision() }

// ToolInvocation requests execution of a named tool with raw JSON arguments.
type ToolInvocation struct {
	Call ToolCall
}

func (ToolInvocation) isDecision() {}

// Handoff directs the engine to transfer control to another agent. Context
// carries whatever situation summary the handing-off agent produced (for the
// reviewer this is the revision feedback); it seeds the target's transcript.
type Handoff struct {
	Target  string
	Context string
}

func (Handoff) isDecision() {}

// FinalAnswer terminates the run with the agent's final textual output.
type FinalAnswer struct {
	Text string
}

func (FinalAnswer) isDecision() {}

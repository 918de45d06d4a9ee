package runner

import "errors"

var (
	// ErrBudgetExceeded signals that the run consumed its full turn budget
	// without the active agent producing a final answer.
	ErrBudgetExceeded = errors.New("turn budget exceeded")

	// ErrInvalidHandoff signals a handoff to a target the active agent has
	// not declared. The run terminates without dispatching further work.
	ErrInvalidHandoff = errors.New("invalid handoff target")

	// ErrUnknownAgent signals a run started with, or handed off to, an agent
	// name missing from the registry.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrProtocol signals a provider reply outside the recognized decision
	// set, for example a reply with neither text nor a tool call.
	ErrProtocol = errors.New("protocol error")

	// ErrProvider wraps transport or API failures from the completion
	// provider. The run terminates; retry policy belongs to the caller.
	ErrProvider = errors.New("completion provider error")
)

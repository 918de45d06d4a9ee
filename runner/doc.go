// Package runner implements the turn engine: the control loop that drives a
// completion-provider-backed agent through tool calls, interprets handoff
// decisions, enforces turn and revision budgets, and terminates with a final
// textual result.
//
// # Execution model
//
// A run advances one turn at a time. Each turn sends the active agent's
// instructions, transcript and tool menu to the completion provider and
// interprets the reply into exactly one decision: a tool invocation (executed
// via the dispatcher, result appended, same agent stays active), a handoff
// (control moves to a declared target agent with a fresh transcript seeded
// from the task plus any carried feedback), or a final answer (the run
// terminates). Turns are strictly sequential; the provider is never queried
// concurrently within one run, and tool side effects are fully committed
// before the next query is issued.
//
// # Failure semantics
//
// Tool rejections and artifact faults are recovered locally as result text so
// the model can self-correct. A handoff to an undeclared target, a provider
// error, or a reply outside the recognized decision set is fatal for the run.
// Exhausting the turn budget returns ErrBudgetExceeded after exactly MaxTurns
// provider queries so operators can tell runaway loops from real errors.
package runner

// Package gate implements the capability gate: the allow-list enforcement
// point deciding whether a tool call may read or write a named artifact.
//
// The gate is deliberately dumb. It holds two static sets of resource names,
// one for reads and one for writes, and answers Authorize with either nil or
// a *DeniedError whose message enumerates the allowed choices. It has no side
// effects, no per-job state, and never panics; callers fold denials into tool
// result text so the model can self-correct. Job scoping of the underlying
// resources is the artifact store's concern, not the gate's.
package gate

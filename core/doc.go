// Package core provides the foundational domain types used by ReportMesh. It
// defines the core abstractions for:
//
//   - Transcript messages exchanged with a completion provider
//   - Decisions (the closed set of provider responses: tool invocation,
//     handoff, final answer)
//   - Tool calls and their textual results
//   - Run results produced by the turn engine
//
// The package intentionally keeps implementation concerns (persistence, model
// adapters, orchestration) out of scope, exposing small value types so the
// surrounding packages can depend on a stable, cycle-free center.
package core

// Package agent defines agent roles for ReportMesh runs.
//
// A Definition is a named role: the system instructions handed to the
// completion provider, the set of tools the role may call, and the set of
// agents it may hand control to. Definitions are immutable once constructed
// and referenced by name from the workflow layer.
//
// The Registry holds the definitions participating in one run and validates
// the handoff graph at registration time: a target that is never registered
// is a configuration bug and surfaces as an error when the registry is
// sealed, not at runtime mid-conversation.
package agent

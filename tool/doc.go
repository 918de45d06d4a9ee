// Package tool implements the function calling subsystem that lets agents
// read and write job-scoped artifacts through capability-gated operations.
//
// Tools expose a JSON-schema parameter description to the completion provider
// and execute against the artifact store after the capability gate has
// cleared the requested resource. The Dispatcher validates a requested tool
// call against the active agent's declared tool set before any tool (and
// therefore the gate) is consulted, and folds every failure into the textual
// ToolResult envelope so nothing escapes into the turn engine as an error.
package tool

package core

// RunResult is produced once by the turn engine when a run reaches a final
// answer. Immutable thereafter.
type RunResult struct {
	// Agent is the name of the agent that produced the final answer.
	Agent string `json:"agent"`
	// Text is the final textual output of the run.
	Text string `json:"text"`
	// Turns is the number of completion provider queries the run consumed.
	Turns int `json:"turns"`
}

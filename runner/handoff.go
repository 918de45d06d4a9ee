package runner

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/model"
)

// HandoffToolName is the reserved pseudo-tool through which models express a
// handoff decision. It never reaches the dispatcher; the runner intercepts it.
const HandoffToolName = "handoff_to_agent"

// handoffDefinition builds the pseudo-tool schema advertised to the model for
// an agent with at least one declared handoff target.
func handoffDefinition(def *agent.Definition) model.ToolDefinition {
	return model.ToolDefinition{
		Name:        HandoffToolName,
		Description: "Transfer the conversation to another agent. Use this when your part of the task is done or when the work needs another agent's review.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agent": map[string]any{
					"type":        "string",
					"description": "Name of the agent to hand off to.",
					"enum":        def.Handoffs,
				},
				"context": map[string]any{
					"type":        "string",
					"description": "Instructions or feedback carried to the receiving agent.",
				},
			},
			"required": []string{"agent"},
		},
	}
}

type handoffArgs struct {
	Agent   string `json:"agent"`
	Context string `json:"context"`
}

// interpret maps a provider reply onto exactly one decision. A reply that
// fits no recognized variant is a protocol error and fatal for the run.
func interpret(reply model.Reply) (core.Decision, error) {
	if len(reply.ToolCalls) > 0 {
		call := reply.ToolCalls[0]
		if call.Name != HandoffToolName {
			return core.ToolInvocation{Call: call}, nil
		}

		var args handoffArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, fmt.Errorf("%w: malformed %s arguments: %v", ErrProtocol, HandoffToolName, err)
		}
		if args.Agent == "" {
			return nil, fmt.Errorf("%w: %s call without an agent name", ErrProtocol, HandoffToolName)
		}
		return core.Handoff{Target: args.Agent, Context: args.Context}, nil
	}

	if reply.Text != "" {
		return core.FinalAnswer{Text: reply.Text}, nil
	}

	return nil, fmt.Errorf("%w: reply carries neither text nor a tool call", ErrProtocol)
}

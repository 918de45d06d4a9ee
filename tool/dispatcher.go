package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/logging"
)

// Dispatcher validates and executes tool calls for one job. It is constructed
// fresh per job so no state is shared across concurrently running jobs.
//
// Ordering guarantee: the role check against the agent's declared tool set
// happens before the tool (and so the capability gate) is consulted. A call
// referencing a tool outside the role is rejected without touching the gate.
//
// Every branch returns within the ToolResult envelope; a tool error is folded
// into success=false with the error message as text, never propagated to the
// turn engine.
type Dispatcher struct {
	tools  map[string]Tool
	logger logging.Logger
}

// NewDispatcher builds a dispatcher over the given tools.
func NewDispatcher(logger logging.Logger, tools ...Tool) *Dispatcher {
	d := &Dispatcher{
		tools:  make(map[string]Tool, len(tools)),
		logger: logging.OrNoOp(logger),
	}
	for _, t := range tools {
		d.tools[t.Name()] = t
	}
	return d
}

// Definitions returns the model-facing declarations for the named tools, in
// stable order. Unknown names are skipped; the registry validation upstream
// makes that a non-event in practice.
func (d *Dispatcher) Definitions(names []string) []Definition {
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		t, ok := d.tools[name]
		if !ok {
			continue
		}
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Definition is the model-facing declaration of a tool. It mirrors
// model.ToolDefinition without importing it, keeping this package free of a
// dependency on the provider layer.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Execute runs one tool call on behalf of the given agent role.
func (d *Dispatcher) Execute(ctx context.Context, def *agent.Definition, call core.ToolCall) core.ToolResult {
	if !def.CanUse(call.Name) {
		d.logger.Warn("tool.call.rejected", "agent", def.Name, "tool", call.Name, "reason", "not in role")
		return core.ToolResult{
			Success: false,
			Text: fmt.Sprintf("Error: tool %q is not available to this role. Available tools: %s",
				call.Name, strings.Join(def.Tools, ", ")),
		}
	}

	t, ok := d.tools[call.Name]
	if !ok {
		d.logger.Warn("tool.call.rejected", "agent", def.Name, "tool", call.Name, "reason", "unknown tool")
		return core.ToolResult{
			Success: false,
			Text:    fmt.Sprintf("Error: unknown tool %q", call.Name),
		}
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			d.logger.Warn("tool.call.bad_args", "agent", def.Name, "tool", call.Name, "error", err.Error())
			return core.ToolResult{
				Success: false,
				Text:    fmt.Sprintf("Error: could not parse arguments for %s: %v", call.Name, err),
			}
		}
	}

	start := time.Now()
	text, err := t.Call(ctx, args)
	if err != nil {
		d.logger.Error("tool.call.error", "agent", def.Name, "tool", call.Name, "error", err.Error())
		return core.ToolResult{Success: false, Text: err.Error()}
	}

	d.logger.Info("tool.call.success", "agent", def.Name, "tool", call.Name,
		"duration_ms", time.Since(start).Milliseconds())
	return core.ToolResult{Success: true, Text: text}
}

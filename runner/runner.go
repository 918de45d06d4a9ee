package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/logging"
	"github.com/hupe1980/reportmesh/model"
	"github.com/hupe1980/reportmesh/tool"
)

// DefaultMaxTurns bounds a run when no explicit budget is configured.
const DefaultMaxTurns = 100

// RevisionPolicy caps how many times one specific handoff edge may be taken
// within a single run. When the cap is reached, further handoffs along that
// edge are rejected in-transcript and the sending agent is directed to
// finalize with the work already saved.
type RevisionPolicy struct {
	// From and To name the capped edge, e.g. reviewer -> writer.
	From string
	To   string
	// Max is the number of times the edge may be taken. Zero disables the
	// edge entirely.
	Max int
}

func (p RevisionPolicy) matches(from, to string) bool {
	return p.From == from && p.To == to
}

// Options configures a Runner.
type Options struct {
	// MaxTurns is the hard ceiling on completion provider queries per run.
	MaxTurns int

	// Revision, when set, caps one handoff edge. See RevisionPolicy.
	Revision *RevisionPolicy

	// Logger receives structured run telemetry. Defaults to a no-op logger.
	Logger logging.Logger
}

// Runner drives agents through the turn loop against a single completion
// provider. A Runner is safe to reuse across runs but not concurrently;
// revision accounting is per-runner state reset at the start of each run.
type Runner struct {
	model      model.Model
	dispatcher *tool.Dispatcher
	registry   *agent.Registry
	opts       Options

	revisions int
}

// New creates a Runner over the given provider, dispatcher and agent
// registry.
func New(m model.Model, dispatcher *tool.Dispatcher, registry *agent.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxTurns: DefaultMaxTurns,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Runner{
		model:      m,
		dispatcher: dispatcher,
		registry:   registry,
		opts:       opts,
	}
}

// WithMaxTurns overrides the per-run turn budget.
func WithMaxTurns(n int) func(o *Options) {
	return func(o *Options) { o.MaxTurns = n }
}

// WithRevisionPolicy caps the named handoff edge.
func WithRevisionPolicy(p RevisionPolicy) func(o *Options) {
	return func(o *Options) { o.Revision = &p }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Revisions reports how many capped handoffs the last run consumed.
func (r *Runner) Revisions() int {
	return r.revisions
}

// Run executes the turn loop starting at the named agent until an agent
// produces a final answer, the turn budget is exhausted, or a fatal fault
// occurs. The task seeds the first transcript and re-seeds it after every
// handoff.
func (r *Runner) Run(ctx context.Context, initialAgent, task string) (core.RunResult, error) {
	if err := r.registry.Validate(); err != nil {
		return core.RunResult{}, err
	}

	def := r.registry.Get(initialAgent)
	if def == nil {
		return core.RunResult{}, fmt.Errorf("%w: %q", ErrUnknownAgent, initialAgent)
	}

	r.revisions = 0

	runID := core.NewID()
	transcript := []core.Message{core.UserMessage(task)}

	r.opts.Logger.Info("run.start", "run_id", runID, "agent", def.Name, "max_turns", r.opts.MaxTurns)

	for turn := 1; turn <= r.opts.MaxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return core.RunResult{}, fmt.Errorf("run aborted before turn %d: %w", turn, err)
		}

		reply, err := r.model.Complete(ctx, model.Request{
			Instructions: def.Instructions,
			Messages:     transcript,
			Tools:        r.toolMenu(def),
		})
		if err != nil {
			r.opts.Logger.Error("run.provider.error", "run_id", runID, "agent", def.Name, "turn", turn, "error", err)
			return core.RunResult{}, fmt.Errorf("%w: %w", ErrProvider, err)
		}

		decision, err := interpret(reply)
		if err != nil {
			r.opts.Logger.Error("run.protocol.error", "run_id", runID, "agent", def.Name, "turn", turn, "error", err)
			return core.RunResult{}, err
		}

		if len(reply.ToolCalls) > 1 {
			r.opts.Logger.Warn("run.reply.extra_tool_calls", "run_id", runID, "agent", def.Name, "turn", turn, "dropped", len(reply.ToolCalls)-1)
		}

		switch d := decision.(type) {
		case core.ToolInvocation:
			start := time.Now()
			result := r.dispatcher.Execute(ctx, def, d.Call)

			transcript = append(transcript,
				core.AssistantToolCallMessage(reply.Text, d.Call),
				core.ToolResultMessage(d.Call.ID, d.Call.Name, result),
			)

			r.opts.Logger.Debug("run.turn.tool", "run_id", runID, "agent", def.Name, "turn", turn,
				"tool", d.Call.Name, "success", result.Success, "duration_ms", time.Since(start).Milliseconds())

		case core.Handoff:
			if !def.CanHandoffTo(d.Target) {
				r.opts.Logger.Error("run.handoff.invalid", "run_id", runID, "agent", def.Name, "turn", turn, "target", d.Target)
				return core.RunResult{}, fmt.Errorf("%w: %q cannot hand off to %q (declared: %s)",
					ErrInvalidHandoff, def.Name, d.Target, strings.Join(def.Handoffs, ", "))
			}

			if p := r.opts.Revision; p != nil && p.matches(def.Name, d.Target) {
				if r.revisions >= p.Max {
					call := reply.ToolCalls[0]
					transcript = append(transcript,
						core.AssistantToolCallMessage(reply.Text, call),
						core.ToolResultMessage(call.ID, call.Name, core.ToolResult{
							Success: false,
							Text: fmt.Sprintf("Error: revision limit reached (%d of %d used). Further handoffs to %q are denied. Produce your final answer now from the work already saved.",
								r.revisions, p.Max, d.Target),
						}),
					)

					r.opts.Logger.Info("run.handoff.capped", "run_id", runID, "agent", def.Name, "turn", turn,
						"target", d.Target, "revisions", r.revisions)

					continue
				}
				r.revisions++
			}

			next := r.registry.Get(d.Target)
			if next == nil {
				return core.RunResult{}, fmt.Errorf("%w: %q", ErrUnknownAgent, d.Target)
			}

			r.opts.Logger.Info("run.handoff", "run_id", runID, "from", def.Name, "to", next.Name, "turn", turn)

			transcript = seedTranscript(task, def.Name, d.Context)
			def = next

		case core.FinalAnswer:
			r.opts.Logger.Info("run.done", "run_id", runID, "agent", def.Name, "turns", turn)

			return core.RunResult{
				Agent: def.Name,
				Text:  d.Text,
				Turns: turn,
			}, nil

		default:
			return core.RunResult{}, fmt.Errorf("%w: unrecognized decision %T", ErrProtocol, decision)
		}
	}

	r.opts.Logger.Error("run.budget.exceeded", "run_id", runID, "agent", def.Name, "max_turns", r.opts.MaxTurns)

	return core.RunResult{}, fmt.Errorf("%w: no final answer after %d turns", ErrBudgetExceeded, r.opts.MaxTurns)
}

// toolMenu assembles the tool definitions the model may call this turn: the
// agent's declared tools plus the handoff pseudo-tool when any handoff
// targets are declared.
func (r *Runner) toolMenu(def *agent.Definition) []model.ToolDefinition {
	defs := r.dispatcher.Definitions(def.Tools)

	menu := make([]model.ToolDefinition, 0, len(defs)+1)
	for _, d := range defs {
		menu = append(menu, model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}

	if len(def.Handoffs) > 0 {
		menu = append(menu, handoffDefinition(def))
	}

	return menu
}

// seedTranscript builds the fresh transcript a receiving agent starts from
// after a handoff: the original task, plus any context carried by the sender.
func seedTranscript(task, from, feedback string) []core.Message {
	msgs := []core.Message{core.UserMessage(task)}
	if feedback != "" {
		msgs = append(msgs, core.UserMessage(fmt.Sprintf("Feedback from %s:\n%s", from, feedback)))
	}
	return msgs
}

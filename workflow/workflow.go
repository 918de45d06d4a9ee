package workflow

import (
	"context"
	"fmt"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/gate"
	"github.com/hupe1980/reportmesh/logging"
	"github.com/hupe1980/reportmesh/model"
	"github.com/hupe1980/reportmesh/runner"
	"github.com/hupe1980/reportmesh/tool"
)

// Artifact names the pipeline knows about. Scan artifacts are produced
// upstream; draft.md and report.md are produced by the agents.
const (
	ArtifactGrype  = "grype.json"
	ArtifactDockle = "dockle.json"
	ArtifactDive   = "dive.json"
	ArtifactDraft  = "draft.md"
	ArtifactReport = "report.md"
)

// MaxRevisions bounds how many times the reviewer may send the draft back to
// the writer within one run.
const MaxRevisions = 3

// initialTask seeds the writer's first transcript.
const initialTask = "Fetch all available scan data, analyze the results, and produce a complete Image Security Report as draft.md."

// readableArtifacts and writableArtifacts define the capability gate for both
// roles. The reviewer publishes to report.md; the writer works in draft.md.
var (
	readableArtifacts = []string{ArtifactGrype, ArtifactDockle, ArtifactDive, ArtifactDraft, ArtifactReport}
	writableArtifacts = []string{ArtifactDraft, ArtifactReport}
)

// Options configures a ReportWorkflow.
type Options struct {
	// MaxTurns bounds provider queries per run. Defaults to
	// runner.DefaultMaxTurns.
	MaxTurns int

	// MaxRevisions bounds reviewer-to-writer handoffs per run. Defaults to
	// MaxRevisions.
	MaxRevisions int

	// Logger receives structured telemetry. Defaults to a no-op logger.
	Logger logging.Logger
}

// Result is the outcome of a completed report run.
type Result struct {
	// JobID identifies the scan job the report belongs to.
	JobID string

	// Agent is the name of the agent that produced the final answer.
	Agent string

	// Verdict is the final textual output, normally the reviewer's verdict.
	Verdict string

	// Report is the published report.md content.
	Report []byte

	// Turns is the number of provider queries the run consumed.
	Turns int

	// Revisions is the number of reviewer-to-writer handoffs taken.
	Revisions int
}

// ReportWorkflow wires agents, tools, gate and runner into a reusable report
// pipeline over one artifact store and one completion provider.
type ReportWorkflow struct {
	store artifact.Store
	model model.Model
	opts  Options
}

// New creates a ReportWorkflow.
func New(store artifact.Store, m model.Model, optFns ...func(o *Options)) *ReportWorkflow {
	opts := Options{
		MaxTurns:     runner.DefaultMaxTurns,
		MaxRevisions: MaxRevisions,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &ReportWorkflow{
		store: store,
		model: m,
		opts:  opts,
	}
}

// WithMaxTurns overrides the turn budget.
func WithMaxTurns(n int) func(o *Options) {
	return func(o *Options) { o.MaxTurns = n }
}

// WithMaxRevisions overrides the revision cap.
func WithMaxRevisions(n int) func(o *Options) {
	return func(o *Options) { o.MaxRevisions = n }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Run executes the writer/reviewer loop for one job and returns the published
// report. It fails if the run terminates without report.md present, since a
// verdict without a published report is useless to the caller.
func (w *ReportWorkflow) Run(ctx context.Context, jobID string) (*Result, error) {
	g := gate.New(readableArtifacts, writableArtifacts)

	dispatcher := tool.NewDispatcher(w.opts.Logger,
		tool.NewReadFileTool(jobID, w.store, g),
		tool.NewWriteFileTool(jobID, w.store, g),
		tool.NewListFilesTool(jobID, w.store),
	)

	registry := agent.NewRegistry()
	if err := registry.Register(WriterAgent()); err != nil {
		return nil, err
	}
	if err := registry.Register(ReviewerAgent()); err != nil {
		return nil, err
	}

	run := runner.New(w.model, dispatcher, registry,
		runner.WithMaxTurns(w.opts.MaxTurns),
		runner.WithRevisionPolicy(runner.RevisionPolicy{
			From: ReviewerName,
			To:   WriterName,
			Max:  w.opts.MaxRevisions,
		}),
		runner.WithLogger(w.opts.Logger),
	)

	w.opts.Logger.Info("workflow.start", "job_id", jobID, "model", w.model.Info().Name)

	result, err := run.Run(ctx, WriterName, initialTask)
	if err != nil {
		return nil, fmt.Errorf("report run for job %q: %w", jobID, err)
	}

	report, err := w.store.Get(ctx, jobID, ArtifactReport)
	if err != nil {
		return nil, fmt.Errorf("report.md not published for job %q: %w", jobID, err)
	}

	w.opts.Logger.Info("workflow.done", "job_id", jobID, "agent", result.Agent,
		"turns", result.Turns, "revisions", run.Revisions(), "report_bytes", len(report))

	return &Result{
		JobID:     jobID,
		Agent:     result.Agent,
		Verdict:   result.Text,
		Report:    report,
		Turns:     result.Turns,
		Revisions: run.Revisions(),
	}, nil
}

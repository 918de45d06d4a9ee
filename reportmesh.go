// Package reportmesh provides a high-level façade over the turn runner and
// the writer/reviewer report workflow. Most applications interact with this
// package by:
//  1. Creating a ReportMesh via New() with a completion model (optionally
//     overriding the default in-memory artifact store)
//  2. Calling GenerateReport for a job whose scan artifacts are in the store
//
// The façade delegates orchestration to runner.Runner through the workflow
// package while keeping setup ergonomics concise. Defaults are safe for local
// development and testing; production deployments supply a MinIO-backed
// artifact store and a structured logger.
package reportmesh

import (
	"context"

	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/logging"
	"github.com/hupe1980/reportmesh/model"
	"github.com/hupe1980/reportmesh/runner"
	"github.com/hupe1980/reportmesh/workflow"
)

// Options configures the ReportMesh instance.
type Options struct {
	// ArtifactStore holds scan artifacts and produced reports. Defaults to
	// an in-memory implementation.
	ArtifactStore artifact.Store

	// MaxTurns bounds completion provider queries per run.
	MaxTurns int

	// MaxRevisions bounds reviewer-to-writer handoffs per run.
	MaxRevisions int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ReportMesh is the high-level façade aggregating the report workflow and its
// backing services.
type ReportMesh struct {
	opts Options
	wf   *workflow.ReportWorkflow
}

// New creates a new ReportMesh over the given completion model with optional
// overrides. Any unset service is initialized with an in-memory
// implementation.
func New(m model.Model, optFns ...func(o *Options)) *ReportMesh {
	opts := Options{
		ArtifactStore: artifact.NewInMemoryStore(),
		MaxTurns:      runner.DefaultMaxTurns,
		MaxRevisions:  workflow.MaxRevisions,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	wf := workflow.New(opts.ArtifactStore, m, func(o *workflow.Options) {
		o.MaxTurns = opts.MaxTurns
		o.MaxRevisions = opts.MaxRevisions
		o.Logger = opts.Logger
	})

	return &ReportMesh{
		opts: opts,
		wf:   wf,
	}
}

// ArtifactStore returns the configured artifact store, useful for seeding
// scan artifacts before a run.
func (rm *ReportMesh) ArtifactStore() artifact.Store {
	return rm.opts.ArtifactStore
}

// GenerateReport runs the writer/reviewer pipeline for one job and returns
// the published report.
func (rm *ReportMesh) GenerateReport(ctx context.Context, jobID string) (*workflow.Result, error) {
	return rm.wf.Run(ctx, jobID)
}

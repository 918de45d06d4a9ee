package service

import (
	"context"
	"fmt"

	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/logging"
	"github.com/hupe1980/reportmesh/provider"
	"github.com/hupe1980/reportmesh/workflow"
)

// Options configures a ReportService.
type Options struct {
	// MaxTurns and MaxRevisions are forwarded to the workflow.
	MaxTurns     int
	MaxRevisions int

	// Logger receives structured telemetry. Defaults to a no-op logger.
	Logger logging.Logger
}

// ReportService runs the report pipeline for stored jobs using their owner's
// connected completion provider.
type ReportService struct {
	jobs      *JobStore
	creds     *provider.CredentialStore
	artifacts artifact.Store
	opts      Options
}

// New creates a ReportService.
func New(jobs *JobStore, creds *provider.CredentialStore, artifacts artifact.Store, optFns ...func(o *Options)) *ReportService {
	opts := Options{
		MaxRevisions: workflow.MaxRevisions,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &ReportService{
		jobs:      jobs,
		creds:     creds,
		artifacts: artifacts,
		opts:      opts,
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMaxTurns overrides the workflow turn budget.
func WithMaxTurns(n int) func(o *Options) {
	return func(o *Options) { o.MaxTurns = n }
}

// GenerateReport runs the writer/reviewer pipeline for the given job. When p
// is empty the job owner's connected providers are tried in priority order.
// The job row tracks run state: RUNNING while the pipeline executes, then
// COMPLETED or FAILED.
func (s *ReportService) GenerateReport(ctx context.Context, jobID string, p provider.Provider) (*workflow.Result, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID == "" {
		return nil, fmt.Errorf("job %q has no user", jobID)
	}

	creds, err := s.creds.Resolve(ctx, job.UserID, p)
	if err != nil {
		return nil, err
	}

	m, err := provider.NewModel(creds)
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Info("report.start", "job_id", jobID, "provider", creds.Provider, "model", m.Info().Name)

	if err := s.jobs.SetStatus(ctx, jobID, JobStatusRunning, ""); err != nil {
		return nil, fmt.Errorf("marking job %q running: %w", jobID, err)
	}

	wf := workflow.New(s.artifacts, m,
		func(o *workflow.Options) {
			if s.opts.MaxTurns > 0 {
				o.MaxTurns = s.opts.MaxTurns
			}
			o.MaxRevisions = s.opts.MaxRevisions
			o.Logger = s.opts.Logger
		},
	)

	result, err := wf.Run(ctx, jobID)
	if err != nil {
		if serr := s.jobs.SetStatus(ctx, jobID, JobStatusFailed, err.Error()); serr != nil {
			s.opts.Logger.Error("report.status.update", "job_id", jobID, "error", serr)
		}
		return nil, fmt.Errorf("generating report for job %q: %w", jobID, err)
	}

	if err := s.jobs.SetStatus(ctx, jobID, JobStatusCompleted, ""); err != nil {
		s.opts.Logger.Error("report.status.update", "job_id", jobID, "error", err)
	}

	s.opts.Logger.Info("report.done", "job_id", jobID, "turns", result.Turns, "revisions", result.Revisions)

	return result, nil
}

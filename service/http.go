package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/provider"
	"github.com/hupe1980/reportmesh/runner"
	"github.com/hupe1980/reportmesh/workflow"
)

// Server exposes the report pipeline over HTTP.
type Server struct {
	svc *ReportService
	app *fiber.App
}

// NewServer builds the fiber application around svc.
func NewServer(svc *ReportService) *Server {
	s := &Server{
		svc: svc,
		app: fiber.New(fiber.Config{
			AppName:               "reportmesh",
			DisableStartupMessage: true,
		}),
	}

	api := s.app.Group("/api/v1")
	api.Get("/health", s.health)
	api.Post("/report", s.generateReportFromBody)

	jobs := api.Group("/jobs")
	jobs.Post("/:id/report", s.generateReport)
	jobs.Get("/:id/report.md", s.downloadArtifact(workflow.ArtifactReport, "text/markdown; charset=utf-8"))
	jobs.Get("/:id/draft.md", s.downloadArtifact(workflow.ArtifactDraft, "text/markdown; charset=utf-8"))
	jobs.Get("/:id/grype.json", s.downloadArtifact(workflow.ArtifactGrype, "application/json"))
	jobs.Get("/:id/dockle.json", s.downloadArtifact(workflow.ArtifactDockle, "application/json"))
	jobs.Get("/:id/dive.json", s.downloadArtifact(workflow.ArtifactDive, "application/json"))

	return s
}

// Listen serves HTTP on addr until the app is shut down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "reportmesh",
	})
}

// generateReportFromBody runs the pipeline for the job named in the request
// body.
// POST /api/v1/report {"job_id": "...", "provider": "openai"}
func (s *Server) generateReportFromBody(c *fiber.Ctx) error {
	var req struct {
		JobID    string `json:"job_id"`
		Provider string `json:"provider"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_id is required"})
	}
	return s.runReport(c, req.JobID, provider.Provider(req.Provider))
}

// generateReport runs the writer/reviewer pipeline for a job.
// POST /api/v1/jobs/:id/report?provider=openai
func (s *Server) generateReport(c *fiber.Ctx) error {
	return s.runReport(c, c.Params("id"), provider.Provider(c.Query("provider")))
}

func (s *Server) runReport(c *fiber.Ctx, jobID string, p provider.Provider) error {
	result, err := s.svc.GenerateReport(c.Context(), jobID, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, provider.ErrNoProvider):
			return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, runner.ErrBudgetExceeded):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"job_id":       result.JobID,
		"agent":        result.Agent,
		"verdict":      result.Verdict,
		"turns":        result.Turns,
		"revisions":    result.Revisions,
		"report_bytes": len(result.Report),
	})
}

// downloadArtifact streams one named artifact for a job.
func (s *Server) downloadArtifact(name, contentType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobID := c.Params("id")

		data, err := s.svc.artifacts.Get(c.Context(), jobID, name)
		if err != nil {
			if errors.Is(err, artifact.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": fmt.Sprintf("artifact not found: %s/%s", jobID, name),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		c.Set("Content-Type", contentType)
		if c.Query("download") == "true" {
			c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		}
		return c.Send(data)
	}
}

package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/gate"
)

// readMaxBytes bounds one read_file response (~40 KB) to stay within model
// context limits; larger artifacts are paginated via the offset argument.
const readMaxBytes = 40000

// ReadFileTool reads a job-scoped artifact through the capability gate.
type ReadFileTool struct {
	jobID string
	store artifact.Store
	auth  gate.Authorizer
	names []string // allowed read names, for the schema enum
}

var _ Tool = (*ReadFileTool)(nil)

// NewReadFileTool constructs the read tool bound to one job. The enum in the
// parameter schema mirrors the gate's read allow-list so the model sees its
// legal choices up front.
func NewReadFileTool(jobID string, store artifact.Store, g *gate.Gate) *ReadFileTool {
	return &ReadFileTool{jobID: jobID, store: store, auth: g, names: g.AllowedRead()}
}

// NewReadFileToolWithAuthorizer is like NewReadFileTool with an explicit
// Authorizer; used by tests to observe gate consultation.
func NewReadFileToolWithAuthorizer(jobID string, store artifact.Store, auth gate.Authorizer, names []string) *ReadFileTool {
	return &ReadFileTool{jobID: jobID, store: store, auth: auth, names: names}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return fmt.Sprintf("Read a scan artifact or report file for the current job. Choose from: %s. "+
		"Responses are capped at ~40 KB; if the response contains TRUNCATED, call again with the returned offset.",
		strings.Join(t.names, ", "))
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"enum":        t.names,
				"description": "Artifact to read",
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Byte offset to start reading from (0 for the beginning). Use to paginate large files.",
			},
		},
		"required": []string{"filename"},
	}
}

// Call authorizes the read, then fetches the artifact. A missing artifact is
// a result, not a failure: the model must be able to reason about absent
// data, e.g. a scan that was skipped for this job.
func (t *ReadFileTool) Call(ctx context.Context, args map[string]any) (string, error) {
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return "", fmt.Errorf("missing required field 'filename'")
	}
	if err := t.auth.Authorize(t.jobID, t.Name(), filename, gate.ModeRead); err != nil {
		return "", err
	}

	data, err := t.store.Get(ctx, t.jobID, filename)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return fmt.Sprintf("%s not available: artifact not found for job %q", filename, t.jobID), nil
		}
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}

	offset := 0
	if raw, ok := args["offset"].(float64); ok && raw > 0 {
		offset = int(raw)
	}
	if offset >= len(data) {
		return fmt.Sprintf("%s: offset %d is past end of file (%d bytes)", filename, offset, len(data)), nil
	}

	chunk := data[offset:]
	if len(chunk) > readMaxBytes {
		next := offset + readMaxBytes
		return fmt.Sprintf("%s\n\n[TRUNCATED — file continues. Call read_file again with offset=%d for the next chunk.]",
			string(chunk[:readMaxBytes]), next), nil
	}
	return string(chunk), nil
}

// WriteFileTool writes a job-scoped artifact through the capability gate.
type WriteFileTool struct {
	jobID       string
	store       artifact.Store
	auth        gate.Authorizer
	names       []string // allowed write names, for the schema enum
	contentType string
}

var _ Tool = (*WriteFileTool)(nil)

// NewWriteFileTool constructs the write tool bound to one job.
func NewWriteFileTool(jobID string, store artifact.Store, g *gate.Gate) *WriteFileTool {
	return &WriteFileTool{
		jobID:       jobID,
		store:       store,
		auth:        g,
		names:       g.AllowedWrite(),
		contentType: "text/markdown",
	}
}

// NewWriteFileToolWithAuthorizer is like NewWriteFileTool with an explicit
// Authorizer; used by tests to observe gate consultation.
func NewWriteFileToolWithAuthorizer(jobID string, store artifact.Store, auth gate.Authorizer, names []string) *WriteFileTool {
	return &WriteFileTool{jobID: jobID, store: store, auth: auth, names: names, contentType: "text/markdown"}
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return fmt.Sprintf("Write report content for the current job. Choose from: %s.", strings.Join(t.names, ", "))
}

func (t *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"enum":        t.names,
				"description": "Artifact to write",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Full content to write",
			},
		},
		"required": []string{"filename", "content"},
	}
}

// Call authorizes the write, stores the bytes and confirms with a byte count.
func (t *WriteFileTool) Call(ctx context.Context, args map[string]any) (string, error) {
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return "", fmt.Errorf("missing required field 'filename'")
	}
	content, ok := args["content"].(string)
	if !ok {
		return "", fmt.Errorf("missing required field 'content'")
	}
	if err := t.auth.Authorize(t.jobID, t.Name(), filename, gate.ModeWrite); err != nil {
		return "", err
	}

	if err := t.store.Put(ctx, t.jobID, filename, []byte(content), t.contentType); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	return fmt.Sprintf("OK: %s saved (%d bytes)", filename, len(content)), nil
}

// ListFilesTool lists the artifacts available for the job so the model can
// confirm which scan outputs exist before reading them.
type ListFilesTool struct {
	jobID string
	store artifact.Store
}

var _ Tool = (*ListFilesTool)(nil)

// NewListFilesTool constructs the listing tool bound to one job.
func NewListFilesTool(jobID string, store artifact.Store) *ListFilesTool {
	return &ListFilesTool{jobID: jobID, store: store}
}

func (t *ListFilesTool) Name() string { return "list_files" }

func (t *ListFilesTool) Description() string {
	return "List the artifact files available for the current job."
}

func (t *ListFilesTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ListFilesTool) Call(ctx context.Context, _ map[string]any) (string, error) {
	infos, err := t.store.List(ctx, t.jobID)
	if err != nil {
		return "", fmt.Errorf("listing artifacts for job %q: %w", t.jobID, err)
	}
	if len(infos) == 0 {
		return fmt.Sprintf("no artifacts found for job %q", t.jobID), nil
	}
	var sb strings.Builder
	sb.WriteString("Available artifacts:\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "  - %s (%d bytes)\n", info.Name, info.Size)
	}
	return sb.String(), nil
}

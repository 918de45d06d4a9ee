package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/gate"
)

// countingAuthorizer records how often the gate was consulted.
type countingAuthorizer struct {
	calls int
	deny  error
}

func (a *countingAuthorizer) Authorize(jobID, tool, resource string, mode gate.Mode) error {
	a.calls++
	return a.deny
}

// stubTool returns a fixed result or error.
type stubTool struct {
	name string
	text string
	err  error
}

func (t *stubTool) Name() string                { return t.name }
func (t *stubTool) Description() string         { return "stub" }
func (t *stubTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (t *stubTool) Call(context.Context, map[string]any) (string, error) {
	return t.text, t.err
}

func writerDef() *agent.Definition {
	return &agent.Definition{
		Name:  "writer",
		Tools: []string{"read_file", "write_file"},
	}
}

func TestDispatcher_RoleCheckBeforeGate(t *testing.T) {
	auth := &countingAuthorizer{}
	read := NewReadFileToolWithAuthorizer("job-1", artifact.NewInMemoryStore(), auth, []string{"grype.json"})
	d := NewDispatcher(nil, read)

	def := &agent.Definition{Name: "reviewer", Tools: []string{"write_file"}}
	result := d.Execute(context.Background(), def, core.ToolCall{
		ID: "c1", Name: "read_file", Arguments: `{"filename":"grype.json"}`,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Text, `tool "read_file" is not available to this role`)
	assert.Contains(t, result.Text, "write_file")
	assert.Equal(t, 0, auth.calls, "gate must not be consulted after a role rejection")
}

func TestDispatcher_GateConsultedForDeclaredTool(t *testing.T) {
	auth := &countingAuthorizer{}
	read := NewReadFileToolWithAuthorizer("job-1", artifact.NewInMemoryStore(), auth, []string{"grype.json"})
	d := NewDispatcher(nil, read)

	result := d.Execute(context.Background(), writerDef(), core.ToolCall{
		ID: "c1", Name: "read_file", Arguments: `{"filename":"grype.json"}`,
	})

	assert.True(t, result.Success)
	assert.Equal(t, 1, auth.calls)
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := NewDispatcher(nil)

	def := &agent.Definition{Name: "writer", Tools: []string{"read_file"}}
	result := d.Execute(context.Background(), def, core.ToolCall{Name: "read_file"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Text, `unknown tool "read_file"`)
}

func TestDispatcher_MalformedArguments(t *testing.T) {
	d := NewDispatcher(nil, &stubTool{name: "read_file", text: "ok"})

	result := d.Execute(context.Background(), writerDef(), core.ToolCall{
		Name: "read_file", Arguments: `{"filename":`,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "could not parse arguments")
}

func TestDispatcher_ToolErrorFoldedIntoResult(t *testing.T) {
	d := NewDispatcher(nil, &stubTool{name: "write_file", err: errors.New("disk full")})

	result := d.Execute(context.Background(), writerDef(), core.ToolCall{Name: "write_file"})

	assert.False(t, result.Success)
	assert.Equal(t, "disk full", result.Text)
}

func TestDispatcher_GateDenialFoldedIntoResult(t *testing.T) {
	auth := &countingAuthorizer{deny: &gate.DeniedError{
		Resource: "report.md", Mode: gate.ModeWrite, Allowed: []string{"draft.md"},
	}}
	write := NewWriteFileToolWithAuthorizer("job-1", artifact.NewInMemoryStore(), auth, []string{"draft.md"})
	d := NewDispatcher(nil, write)

	result := d.Execute(context.Background(), writerDef(), core.ToolCall{
		Name: "write_file", Arguments: `{"filename":"report.md","content":"x"}`,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Text, `"report.md" not allowed for write`)
	assert.Contains(t, result.Text, "Choose from: draft.md")
}

func TestDispatcher_DefinitionsAreStableAndFiltered(t *testing.T) {
	store := artifact.NewInMemoryStore()
	g := gate.New([]string{"grype.json"}, []string{"draft.md"})
	d := NewDispatcher(nil,
		NewWriteFileTool("job-1", store, g),
		NewReadFileTool("job-1", store, g),
		NewListFilesTool("job-1", store),
	)

	defs := d.Definitions([]string{"write_file", "read_file", "nope"})
	require.Len(t, defs, 2)
	assert.Equal(t, "read_file", defs[0].Name)
	assert.Equal(t, "write_file", defs[1].Name)
}

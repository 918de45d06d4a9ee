package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reportmesh/artifact"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/model"
	"github.com/hupe1980/reportmesh/runner"
)

func toolStep(id, name, args string) model.Step {
	return model.Step{Reply: model.Reply{
		ToolCalls: []core.ToolCall{{ID: id, Name: name, Arguments: args}},
	}}
}

func textStep(text string) model.Step {
	return model.Step{Reply: model.Reply{Text: text}}
}

func seedScans(t *testing.T, store artifact.Store, jobID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, jobID, ArtifactGrype, []byte(`{"matches":[]}`), "application/json"))
	require.NoError(t, store.Put(ctx, jobID, ArtifactDockle, []byte(`{"summary":{}}`), "application/json"))
	require.NoError(t, store.Put(ctx, jobID, ArtifactDive, []byte(`{"image":{}}`), "application/json"))
}

func TestReportWorkflow_HappyPath(t *testing.T) {
	const report = "# Image Security Report\n\nbody\n"

	store := artifact.NewInMemoryStore()
	seedScans(t, store, "job-1")

	scripted := model.NewScriptedModel(
		// writer reads a scan, drafts, hands off
		toolStep("c1", "read_file", `{"filename":"grype.json"}`),
		toolStep("c2", "write_file", fmt.Sprintf(`{"filename":"draft.md","content":%q}`, report)),
		toolStep("c3", "handoff_to_agent", `{"agent":"reviewer"}`),
		// reviewer reads, publishes, finalizes
		toolStep("c4", "read_file", `{"filename":"draft.md"}`),
		toolStep("c5", "write_file", fmt.Sprintf(`{"filename":"report.md","content":%q}`, report)),
		textStep("**Verdict:** APPROVE"),
	)

	wf := New(store, scripted)
	result, err := wf.Run(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, ReviewerName, result.Agent)
	assert.Equal(t, "**Verdict:** APPROVE", result.Verdict)
	assert.Equal(t, report, string(result.Report))
	assert.Equal(t, 6, result.Turns)
	assert.Equal(t, 0, result.Revisions)
}

func TestReportWorkflow_OneRevisionCycle(t *testing.T) {
	const report = "# Image Security Report\n\nrevised\n"

	store := artifact.NewInMemoryStore()
	seedScans(t, store, "job-1")

	scripted := model.NewScriptedModel(
		toolStep("c1", "write_file", `{"filename":"draft.md","content":"weak draft"}`),
		toolStep("c2", "handoff_to_agent", `{"agent":"reviewer"}`),
		toolStep("c3", "read_file", `{"filename":"draft.md"}`),
		toolStep("c4", "handoff_to_agent", `{"agent":"writer","context":"1. Add the Score Card."}`),
		toolStep("c5", "write_file", fmt.Sprintf(`{"filename":"draft.md","content":%q}`, report)),
		toolStep("c6", "handoff_to_agent", `{"agent":"reviewer"}`),
		toolStep("c7", "read_file", `{"filename":"draft.md"}`),
		toolStep("c8", "write_file", fmt.Sprintf(`{"filename":"report.md","content":%q}`, report)),
		textStep("**Verdict:** APPROVE"),
	)

	wf := New(store, scripted)
	result, err := wf.Run(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Revisions)
	assert.Equal(t, report, string(result.Report))

	// the revising writer's transcript carries the reviewer feedback
	reqs := scripted.Requests()
	writerRevisionReq := reqs[4]
	require.Len(t, writerRevisionReq.Messages, 2)
	assert.Contains(t, writerRevisionReq.Messages[1].Text, "Feedback from reviewer")
	assert.Contains(t, writerRevisionReq.Messages[1].Text, "Score Card")
}

func TestReportWorkflow_FailsWithoutPublishedReport(t *testing.T) {
	store := artifact.NewInMemoryStore()
	seedScans(t, store, "job-1")

	// writer finalizes without ever publishing report.md
	scripted := model.NewScriptedModel(textStep("I refuse to use tools"))

	wf := New(store, scripted)
	_, err := wf.Run(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
	assert.Contains(t, err.Error(), "report.md not published")
}

func TestReportWorkflow_TurnBudgetSurfaces(t *testing.T) {
	store := artifact.NewInMemoryStore()
	seedScans(t, store, "job-1")

	scripted := model.NewScriptedModel(
		toolStep("c1", "read_file", `{"filename":"grype.json"}`),
		toolStep("c2", "read_file", `{"filename":"grype.json"}`),
	)

	wf := New(store, scripted, WithMaxTurns(2))
	_, err := wf.Run(context.Background(), "job-1")
	require.ErrorIs(t, err, runner.ErrBudgetExceeded)
}

func TestReportWorkflow_GateBlocksScanWrites(t *testing.T) {
	const report = "# Image Security Report\n"

	store := artifact.NewInMemoryStore()
	seedScans(t, store, "job-1")

	scripted := model.NewScriptedModel(
		// writer tries to overwrite a scan artifact; gate denies, writer recovers
		toolStep("c1", "write_file", `{"filename":"grype.json","content":"tampered"}`),
		toolStep("c2", "write_file", fmt.Sprintf(`{"filename":"draft.md","content":%q}`, report)),
		toolStep("c3", "handoff_to_agent", `{"agent":"reviewer"}`),
		toolStep("c4", "write_file", fmt.Sprintf(`{"filename":"report.md","content":%q}`, report)),
		textStep("**Verdict:** APPROVE"),
	)

	wf := New(store, scripted)
	_, err := wf.Run(context.Background(), "job-1")
	require.NoError(t, err)

	// scan artifact untouched
	data, err := store.Get(context.Background(), "job-1", ArtifactGrype)
	require.NoError(t, err)
	assert.Equal(t, `{"matches":[]}`, string(data))

	// the denial was surfaced to the model as a tool result listing choices
	reqs := scripted.Requests()
	second := reqs[1].Messages[len(reqs[1].Messages)-1]
	assert.Contains(t, second.Text, `"grype.json" not allowed for write`)
	assert.Contains(t, second.Text, "Choose from: draft.md, report.md")
}

func TestAgentDefinitions_WireTheLoop(t *testing.T) {
	w := WriterAgent()
	r := ReviewerAgent()

	assert.True(t, w.CanHandoffTo(ReviewerName))
	assert.True(t, r.CanHandoffTo(WriterName))
	assert.True(t, w.CanUse("read_file"))
	assert.True(t, w.CanUse("write_file"))
	assert.True(t, r.CanUse("read_file"))
	assert.False(t, r.CanUse("list_files"))
}

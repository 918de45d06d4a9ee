package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reportmesh/agent"
	"github.com/hupe1980/reportmesh/core"
	"github.com/hupe1980/reportmesh/model"
	"github.com/hupe1980/reportmesh/tool"
)

// echoTool is a trivial tool recording its invocations.
type echoTool struct {
	calls int
}

func (t *echoTool) Name() string               { return "echo" }
func (t *echoTool) Description() string        { return "echoes its input" }
func (t *echoTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (t *echoTool) Call(_ context.Context, args map[string]any) (string, error) {
	t.calls++
	if msg, ok := args["message"].(string); ok {
		return msg, nil
	}
	return "echo", nil
}

func newRegistry(t *testing.T) *agent.Registry {
	t.Helper()
	r := agent.NewRegistry()
	require.NoError(t, r.Register(&agent.Definition{
		Name:         "writer",
		Instructions: "write things",
		Tools:        []string{"echo"},
		Handoffs:     []string{"reviewer"},
	}))
	require.NoError(t, r.Register(&agent.Definition{
		Name:         "reviewer",
		Instructions: "review things",
		Tools:        []string{"echo"},
		Handoffs:     []string{"writer"},
	}))
	return r
}

func toolReply(id, name, args string) model.Step {
	return model.Step{Reply: model.Reply{
		ToolCalls: []core.ToolCall{{ID: id, Name: name, Arguments: args}},
	}}
}

func textReply(text string) model.Step {
	return model.Step{Reply: model.Reply{Text: text}}
}

func TestRunner_FinalAnswerTerminatesRun(t *testing.T) {
	scripted := model.NewScriptedModel(textReply("all done"))
	r := New(scripted, tool.NewDispatcher(nil, &echoTool{}), newRegistry(t))

	result, err := r.Run(context.Background(), "writer", "do the thing")
	require.NoError(t, err)
	assert.Equal(t, "writer", result.Agent)
	assert.Equal(t, "all done", result.Text)
	assert.Equal(t, 1, result.Turns)
	assert.Equal(t, 1, scripted.Calls())
}

func TestRunner_ToolCallThenFinal(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", "echo", `{"message":"hi"}`),
		textReply("done"),
	)
	echo := &echoTool{}
	r := New(scripted, tool.NewDispatcher(nil, echo), newRegistry(t))

	result, err := r.Run(context.Background(), "writer", "task")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Turns)
	assert.Equal(t, 1, echo.calls)

	// second request must carry the tool call and its result in order
	reqs := scripted.Requests()
	require.Len(t, reqs, 2)
	msgs := reqs[1].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	require.NotNil(t, msgs[1].ToolCall)
	assert.Equal(t, "echo", msgs[1].ToolCall.Name)
	assert.Equal(t, core.RoleTool, msgs[2].Role)
	assert.Equal(t, "hi", msgs[2].Text)
	assert.Equal(t, "c1", msgs[2].ToolCallID)
}

func TestRunner_BudgetExceededAfterExactlyMaxTurns(t *testing.T) {
	// every turn burns the budget with a tool call, never finishing
	scripted := model.NewScriptedModel(
		toolReply("c1", "echo", `{}`),
		toolReply("c2", "echo", `{}`),
		toolReply("c3", "echo", `{}`),
		textReply("never reached"),
	)
	r := New(scripted, tool.NewDispatcher(nil, &echoTool{}), newRegistry(t), WithMaxTurns(3))

	_, err := r.Run(context.Background(), "writer", "task")
	require.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 3, scripted.Calls(), "exactly MaxTurns provider queries")
}

func TestRunner_InvalidHandoffIsFatal(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", HandoffToolName, `{"agent":"intruder"}`),
		textReply("never reached"),
	)
	echo := &echoTool{}
	r := New(scripted, tool.NewDispatcher(nil, echo), newRegistry(t))

	_, err := r.Run(context.Background(), "writer", "task")
	require.ErrorIs(t, err, ErrInvalidHandoff)
	assert.Contains(t, err.Error(), `"intruder"`)
	assert.Contains(t, err.Error(), "reviewer", "error names the declared targets")
	assert.Equal(t, 1, scripted.Calls(), "no further provider queries after a fatal handoff")
	assert.Equal(t, 0, echo.calls, "no tool work after a fatal handoff")
}

func TestRunner_UnknownInitialAgent(t *testing.T) {
	scripted := model.NewScriptedModel()
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	_, err := r.Run(context.Background(), "ghost", "task")
	require.ErrorIs(t, err, ErrUnknownAgent)
	assert.Equal(t, 0, scripted.Calls())
}

func TestRunner_EmptyReplyIsProtocolError(t *testing.T) {
	scripted := model.NewScriptedModel(model.Step{Reply: model.Reply{}})
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	_, err := r.Run(context.Background(), "writer", "task")
	require.ErrorIs(t, err, ErrProtocol)
}

func TestRunner_MalformedHandoffArgsIsProtocolError(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", HandoffToolName, `{"agent":`),
	)
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	_, err := r.Run(context.Background(), "writer", "task")
	require.ErrorIs(t, err, ErrProtocol)
}

func TestRunner_ProviderErrorIsFatal(t *testing.T) {
	scripted := model.NewScriptedModel(model.Step{Err: errors.New("rate limited")})
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	_, err := r.Run(context.Background(), "writer", "task")
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestRunner_HandoffResetsTranscriptWithFeedback(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", HandoffToolName, `{"agent":"reviewer","context":"please check section 2"}`),
		textReply("looks good"),
	)
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	result, err := r.Run(context.Background(), "writer", "the task")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", result.Agent)

	reqs := scripted.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "review things", reqs[1].Instructions, "second turn runs under the reviewer")

	msgs := reqs[1].Messages
	require.Len(t, msgs, 2, "fresh transcript: task plus carried feedback")
	assert.Equal(t, "the task", msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "Feedback from writer")
	assert.Contains(t, msgs[1].Text, "please check section 2")
}

func TestRunner_HandoffWithoutContextSeedsTaskOnly(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", HandoffToolName, `{"agent":"reviewer"}`),
		textReply("ok"),
	)
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	_, err := r.Run(context.Background(), "writer", "the task")
	require.NoError(t, err)

	reqs := scripted.Requests()
	require.Len(t, reqs[1].Messages, 1)
	assert.Equal(t, "the task", reqs[1].Messages[0].Text)
}

func TestRunner_HandoffToolOfferedOnlyWithTargets(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(&agent.Definition{
		Name: "solo", Instructions: "alone", Tools: []string{"echo"},
	}))

	scripted := model.NewScriptedModel(textReply("done"))
	r := New(scripted, tool.NewDispatcher(nil, &echoTool{}), reg)

	_, err := r.Run(context.Background(), "solo", "task")
	require.NoError(t, err)

	tools := scripted.Requests()[0].Tools
	for _, td := range tools {
		assert.NotEqual(t, HandoffToolName, td.Name)
	}
}

func TestRunner_RevisionCapRejectsHandoffInTranscript(t *testing.T) {
	scripted := model.NewScriptedModel(
		// writer -> reviewer
		toolReply("c1", HandoffToolName, `{"agent":"reviewer"}`),
		// reviewer -> writer (revision 1, allowed)
		toolReply("c2", HandoffToolName, `{"agent":"writer","context":"fix it"}`),
		// writer -> reviewer again
		toolReply("c3", HandoffToolName, `{"agent":"reviewer"}`),
		// reviewer -> writer (revision 2, over the cap: rejected in-transcript)
		toolReply("c4", HandoffToolName, `{"agent":"writer","context":"still wrong"}`),
		// reviewer must finalize instead
		textReply("**Verdict:** APPROVE"),
	)
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t),
		WithRevisionPolicy(RevisionPolicy{From: "reviewer", To: "writer", Max: 1}),
	)

	result, err := r.Run(context.Background(), "writer", "task")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", result.Agent)
	assert.Equal(t, 1, r.Revisions())

	// turn 5 still runs under the reviewer and sees the rejection as a failed
	// tool call
	reqs := scripted.Requests()
	require.Len(t, reqs, 5)
	assert.Equal(t, "review things", reqs[4].Instructions)

	last := reqs[4].Messages[len(reqs[4].Messages)-1]
	assert.Equal(t, core.RoleTool, last.Role)
	assert.Contains(t, last.Text, "revision limit reached")
	assert.Contains(t, last.Text, "final answer")
}

func TestRunner_RevisionPolicyOnlyCapsMatchingEdge(t *testing.T) {
	scripted := model.NewScriptedModel(
		toolReply("c1", HandoffToolName, `{"agent":"reviewer"}`),
		toolReply("c2", HandoffToolName, `{"agent":"writer"}`),
		toolReply("c3", HandoffToolName, `{"agent":"reviewer"}`),
		textReply("done"),
	)
	// cap a different edge; writer->reviewer stays unlimited
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t),
		WithRevisionPolicy(RevisionPolicy{From: "reviewer", To: "writer", Max: 5}),
	)

	result, err := r.Run(context.Background(), "writer", "task")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", result.Agent)
	assert.Equal(t, 1, r.Revisions(), "only reviewer->writer counts")
}

func TestRunner_ContextCancellationStopsAtTurnBoundary(t *testing.T) {
	scripted := model.NewScriptedModel(textReply("never reached"))
	r := New(scripted, tool.NewDispatcher(nil), newRegistry(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "writer", "task")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, scripted.Calls())
}

func TestRunner_DanglingHandoffGraphFailsBeforeModelTraffic(t *testing.T) {
	reg := agent.NewRegistry()
	require.NoError(t, reg.Register(&agent.Definition{
		Name: "writer", Handoffs: []string{"ghost"},
	}))

	scripted := model.NewScriptedModel()
	r := New(scripted, tool.NewDispatcher(nil), reg)

	_, err := r.Run(context.Background(), "writer", "task")
	require.Error(t, err)
	assert.Equal(t, 0, scripted.Calls())
}

package model

import (
	"context"
	"fmt"
	"sync"
)

// Step configures one model turn in a scripted sequence.
type Step struct {
	Reply Reply
	Err   error
}

// ScriptedModel is a deterministic Model for tests and examples. It replays a
// fixed sequence of steps and records every request it receives so tests can
// assert on the transcript the engine built for each turn.
type ScriptedModel struct {
	mu       sync.Mutex
	index    int
	steps    []Step
	requests []Request
}

var _ Model = (*ScriptedModel)(nil)

// NewScriptedModel builds a scripted model from the given steps.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	cloned := make([]Step, len(steps))
	copy(cloned, steps)
	return &ScriptedModel{steps: cloned}
}

// Complete replays the next scripted step. Exhausting the script is an error;
// it means the engine made more provider queries than the test expected.
func (m *ScriptedModel) Complete(_ context.Context, req Request) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.index >= len(m.steps) {
		return Reply{}, fmt.Errorf("script exhausted at step %d", m.index+1)
	}
	step := m.steps[m.index]
	m.index++
	if step.Err != nil {
		return Reply{}, step.Err
	}
	return step.Reply, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}

// Calls returns the number of Complete invocations seen so far.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a snapshot of every request received, in order.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

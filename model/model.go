// Package model defines the boundary with the language-model service: a
// normalized request carrying the instruction pair and capability
// descriptors, and turn responses carrying generated text, capability
// invocations and citation fragments. Continuation state between rounds is
// an opaque immutable token — callers pass it forward untouched and never
// inspect it.
package model

import (
	"context"
	"fmt"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/tool"
)

// Request captures the normalized model input for the first round of a
// generation session.
type Request struct {
	// System is the system instruction framing the model's role.
	System string
	// User is the fully assembled user instruction.
	User string
	// Tools is the ordered capability descriptor set for the session.
	Tools []tool.Descriptor
}

// Continuation is the opaque handle letting a later round reference the
// prior exchange without resending full history. Implementations return
// immutable snapshots; a Continuation is never mutated after being handed
// out.
type Continuation any

// Turn is one model response within a session.
type Turn struct {
	// Text is the generated text of this turn (may be empty when the
	// model spent the turn requesting capabilities).
	Text string
	// Invocations are capability execution requests, in response order.
	Invocations []core.Invocation
	// Citations are grounding fragments attached to this turn.
	Citations []core.Citation
	// Continuation resumes the exchange after capability results are
	// collected.
	Continuation Continuation
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the generation session requires from the
// language-model service. Both methods are suspension points: they block on
// the external service and honor ctx cancellation.
type Model interface {
	// Start submits the instruction pair plus descriptor set and returns
	// the first turn.
	Start(ctx context.Context, req Request) (*Turn, error)

	// Resume submits only the collected capability results against the
	// continuation of a previous turn.
	Resume(ctx context.Context, cont Continuation, results []core.InvocationResult) (*Turn, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a lightweight in-memory Model useful for tests. It
// replays a fixed sequence of turns (or errors) and records what it was
// asked, letting tests assert on submitted requests and result payloads.
type ScriptedModel struct {
	turns []scriptedTurn

	// Calls counts Start + Resume invocations.
	Calls int
	// StartRequests records every Request passed to Start.
	StartRequests []Request
	// ResumedResults records the result batch of every Resume call.
	ResumedResults [][]core.InvocationResult
}

type scriptedTurn struct {
	turn *Turn
	err  error
}

// NewScriptedModel constructs an empty ScriptedModel; queue turns with
// AddTurn / AddError in playback order.
func NewScriptedModel() *ScriptedModel { return &ScriptedModel{} }

// AddTurn queues a successful turn.
func (m *ScriptedModel) AddTurn(t *Turn) *ScriptedModel {
	m.turns = append(m.turns, scriptedTurn{turn: t})
	return m
}

// AddError queues a failing model call.
func (m *ScriptedModel) AddError(err error) *ScriptedModel {
	m.turns = append(m.turns, scriptedTurn{err: err})
	return m
}

// Start implements Model.
func (m *ScriptedModel) Start(_ context.Context, req Request) (*Turn, error) {
	m.StartRequests = append(m.StartRequests, req)
	return m.next()
}

// Resume implements Model.
func (m *ScriptedModel) Resume(_ context.Context, _ Continuation, results []core.InvocationResult) (*Turn, error) {
	m.ResumedResults = append(m.ResumedResults, results)
	return m.next()
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

func (m *ScriptedModel) next() (*Turn, error) {
	if m.Calls >= len(m.turns) {
		return nil, fmt.Errorf("scripted model exhausted after %d calls", m.Calls)
	}
	s := m.turns[m.Calls]
	m.Calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.turn, nil
}

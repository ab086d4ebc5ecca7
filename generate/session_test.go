package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/model"
	"github.com/lessonforge/lessonforge/tool"
)

// recordingSearcher captures image search calls and replays canned results.
type recordingSearcher struct {
	calls []searchCall
	err   error
}

type searchCall struct {
	query string
	count int
}

func (r *recordingSearcher) Search(_ context.Context, query string, count int) ([]core.ImageResult, error) {
	r.calls = append(r.calls, searchCall{query: query, count: count})
	if r.err != nil {
		return nil, r.err
	}
	return []core.ImageResult{{
		Title:         "Leaf",
		ImageURL:      "https://upload.wikimedia.org/leaf.jpg",
		SourcePageURL: "https://en.wikipedia.org/wiki/Leaf",
	}}, nil
}

func newTestSession(m model.Model, images ImageSearcher) *Session {
	return NewSession(SessionConfig{
		Model:             m,
		Registry:          tool.NewRegistry(false),
		Images:            images,
		DefaultImageQuery: "Photosynthesis classroom diagram",
	})
}

func imageInvocationTurn(args string) *model.Turn {
	return &model.Turn{
		Invocations: []core.Invocation{
			core.ImageSearchInvocation{ID: "call-1", RawArgs: args},
		},
	}
}

func TestRun_CompletesOnFirstTurnWithoutInvocations(t *testing.T) {
	m := model.NewScriptedModel().AddTurn(&model.Turn{Text: "A lesson about photosynthesis."})
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	assert.Equal(t, "A lesson about photosynthesis.", res.Content)
	assert.Equal(t, 1, m.Calls)
	assert.Empty(t, images.calls)
	assert.Equal(t, StateCompleted, s.State())
	assert.Equal(t, 0, s.Rounds())
}

func TestRun_SingleImageSearchRoundThenCompletion(t *testing.T) {
	m := model.NewScriptedModel().
		AddTurn(imageInvocationTurn(`{"query":"leaf cells","count":2}`)).
		AddTurn(&model.Turn{Text: "Final plan with images."})
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	assert.Equal(t, "Final plan with images.", res.Content)
	assert.Equal(t, 2, m.Calls)
	require.Len(t, images.calls, 1)
	assert.Equal(t, searchCall{query: "leaf cells", count: 2}, images.calls[0])
	assert.Equal(t, 1, s.Rounds())

	// Exactly one result, matched to the originating call id.
	require.Len(t, m.ResumedResults, 1)
	require.Len(t, m.ResumedResults[0], 1)
	assert.Equal(t, "call-1", m.ResumedResults[0][0].ID)
	assert.Equal(t, core.CapabilityImageSearch, m.ResumedResults[0][0].Capability)
}

func TestRun_RoundBoundForcesCompletion(t *testing.T) {
	// The model requests a capability on every turn it is given. The
	// session must terminate after MaxRounds+1 model calls without
	// issuing a search beyond the bound.
	m := model.NewScriptedModel()
	for i := 0; i <= MaxRounds; i++ {
		turn := imageInvocationTurn(`{"query":"leaf cells"}`)
		turn.Text = "partial draft"
		m.AddTurn(turn)
	}
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State())
	assert.Equal(t, "partial draft", res.Content)
	assert.Equal(t, MaxRounds+1, m.Calls)
	assert.Len(t, images.calls, MaxRounds)
	assert.Equal(t, MaxRounds, s.Rounds())
}

func TestRun_MalformedArgumentsFallBackToDefaults(t *testing.T) {
	m := model.NewScriptedModel().
		AddTurn(imageInvocationTurn(`this is {{ not json`)).
		AddTurn(&model.Turn{Text: "done"})
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	_, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	require.Len(t, images.calls, 1)
	assert.Equal(t, "Photosynthesis classroom diagram", images.calls[0].query)
	assert.Equal(t, tool.DefaultImageCount, images.calls[0].count)
}

func TestRun_UnrecognizedInvocationDroppedWithoutResult(t *testing.T) {
	m := model.NewScriptedModel().
		AddTurn(&model.Turn{
			Invocations: []core.Invocation{
				core.UnknownInvocation{ID: "x", Name: "video_search", RawArgs: `{}`},
				core.ImageSearchInvocation{ID: "call-2", RawArgs: `{"query":"roots"}`},
			},
		}).
		AddTurn(&model.Turn{Text: "done"})
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	_, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	require.Len(t, m.ResumedResults, 1)
	// Only the recognized invocation produced a result; the unknown one
	// neither blocked progress nor left a dangling entry.
	require.Len(t, m.ResumedResults[0], 1)
	assert.Equal(t, "call-2", m.ResumedResults[0][0].ID)
	assert.Len(t, images.calls, 1)
}

func TestRun_WebSearchInvocationHasNoClientExecutor(t *testing.T) {
	m := model.NewScriptedModel().
		AddTurn(&model.Turn{
			Invocations: []core.Invocation{
				core.WebSearchInvocation{ID: "w", RawArgs: `{"query":"volcano"}`},
			},
		}).
		AddTurn(&model.Turn{Text: "done"})
	images := &recordingSearcher{}
	s := NewSession(SessionConfig{
		Model:             m,
		Registry:          tool.NewRegistry(true),
		Images:            images,
		DefaultImageQuery: "Photosynthesis classroom diagram",
	})

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)
	assert.Empty(t, images.calls)
	require.Len(t, m.ResumedResults, 1)
	assert.Empty(t, m.ResumedResults[0])
}

func TestRun_UndeclaredWebSearchDroppedLikeUnrecognized(t *testing.T) {
	// The session's registry never declared web_search; the model asks for
	// it anyway. The request is dropped without a result, alongside the
	// invocation that is actually serviceable.
	m := model.NewScriptedModel().
		AddTurn(&model.Turn{
			Invocations: []core.Invocation{
				core.WebSearchInvocation{ID: "w", RawArgs: `{"query":"volcano"}`},
				core.ImageSearchInvocation{ID: "call-3", RawArgs: `{"query":"lava"}`},
			},
		}).
		AddTurn(&model.Turn{Text: "done"})
	images := &recordingSearcher{}
	s := newTestSession(m, images)

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)
	require.Len(t, m.ResumedResults, 1)
	require.Len(t, m.ResumedResults[0], 1)
	assert.Equal(t, "call-3", m.ResumedResults[0][0].ID)
	require.Len(t, images.calls, 1)
	assert.Equal(t, "lava", images.calls[0].query)
}

func TestRun_ModelErrorFailsSessionWithoutRetry(t *testing.T) {
	upstream := core.NewUpstreamError("gemini", 0, assert.AnError)
	m := model.NewScriptedModel().AddError(upstream)
	s := newTestSession(m, &recordingSearcher{})

	_, err := s.Run(context.Background(), model.Request{})

	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, 1, m.Calls)
}

func TestRun_ImageSearchFailureIsFatalForTheRound(t *testing.T) {
	upstream := core.NewUpstreamError("wikipedia", 503, assert.AnError)
	m := model.NewScriptedModel().
		AddTurn(imageInvocationTurn(`{"query":"leaf"}`)).
		AddTurn(&model.Turn{Text: "never reached"})
	images := &recordingSearcher{err: upstream}
	s := newTestSession(m, images)

	_, err := s.Run(context.Background(), model.Request{})

	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, StateFailed, s.State())
	// The session stopped before resubmitting anything.
	assert.Equal(t, 1, m.Calls)
	assert.Empty(t, m.ResumedResults)
}

func TestRun_CollectsCitationsAcrossRounds(t *testing.T) {
	first := imageInvocationTurn(`{"query":"leaf"}`)
	first.Citations = []core.Citation{{URI: "https://a.example"}}
	m := model.NewScriptedModel().
		AddTurn(first).
		AddTurn(&model.Turn{Text: "done", Citations: []core.Citation{{URI: "https://b.example"}}})
	s := newTestSession(m, &recordingSearcher{})

	res, err := s.Run(context.Background(), model.Request{})

	require.NoError(t, err)
	require.Len(t, res.Citations, 2)
	assert.Equal(t, "https://a.example", res.Citations[0].URI)
	assert.Equal(t, "https://b.example", res.Citations[1].URI)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "drafting", StateDrafting.String())
	assert.Equal(t, "awaiting_results", StateAwaitingResults.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
}

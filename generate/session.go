// Package generate drives the tool-augmented generation loop: it submits
// the instruction pair to the model, dispatches capability invocations the
// model requests mid-generation, feeds results back, and guarantees the
// exchange terminates within a bounded number of rounds.
package generate

import (
	"context"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/logging"
	"github.com/lessonforge/lessonforge/model"
	"github.com/lessonforge/lessonforge/tool"
)

// MaxRounds is the absolute bound on capability rounds per session. The
// bound exists purely to guarantee termination against a model that keeps
// requesting capabilities; correctness never assumes well-behaved model
// output. A session issues at most MaxRounds+1 model calls.
const MaxRounds = 3

// State is the lifecycle state of a Session.
type State int

const (
	// StateDrafting: a model call is in flight or about to be issued.
	StateDrafting State = iota
	// StateAwaitingResults: invocations from the last turn are executing.
	StateAwaitingResults
	// StateCompleted: final text is available.
	StateCompleted
	// StateFailed: the model service or a capability failed; no retry.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateAwaitingResults:
		return "awaiting_results"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageSearcher executes the image lookup capability.
type ImageSearcher interface {
	Search(ctx context.Context, query string, count int) ([]core.ImageResult, error)
}

// Result is the terminal output of a completed session.
type Result struct {
	Content   string          `json:"content"`
	Citations []core.Citation `json:"citations,omitempty"`
}

// SessionConfig wires a Session's collaborators.
type SessionConfig struct {
	Model    model.Model
	Registry *tool.Registry
	Images   ImageSearcher
	// DefaultImageQuery substitutes for unparseable image_search
	// arguments.
	DefaultImageQuery string
	Logger            logging.Logger
}

// Session is one ephemeral generation exchange. It is owned exclusively by
// the request that created it, is not safe for concurrent use, and is
// discarded after Run returns. Sessions share no mutable state with each
// other; isolation is structural.
type Session struct {
	model        model.Model
	registry     *tool.Registry
	images       ImageSearcher
	defaultQuery string
	logger       logging.Logger

	round     int
	state     State
	finalText string
	citations []core.Citation
}

// NewSession constructs a Session in the Drafting state at round 0.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Session{
		model:        cfg.Model,
		registry:     cfg.Registry,
		images:       cfg.Images,
		defaultQuery: cfg.DefaultImageQuery,
		logger:       logger,
		state:        StateDrafting,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Rounds returns the number of completed capability rounds.
func (s *Session) Rounds() int { return s.round }

// Run drives the session to Completed or Failed and returns the terminal
// result. Every model call and capability execution is a suspension point
// honoring ctx: cancelling the context aborts the session at the next one.
func (s *Session) Run(ctx context.Context, req model.Request) (*Result, error) {
	s.logger.Debug("session.start", "tools", len(req.Tools))

	turn, err := s.model.Start(ctx, req)
	for {
		if err != nil {
			s.state = StateFailed
			s.logger.Error("session.failed", "round", s.round, "error", err.Error())
			return nil, err
		}

		s.citations = append(s.citations, turn.Citations...)

		if len(turn.Invocations) == 0 {
			return s.complete(turn.Text), nil
		}

		if s.round == MaxRounds {
			// The bound is absolute: remaining invocations are
			// silently truncated rather than erroring, using
			// whatever text this turn carries.
			s.logger.Warn("session.rounds.exhausted",
				"round", s.round, "pending_invocations", len(turn.Invocations))
			return s.complete(turn.Text), nil
		}

		s.state = StateAwaitingResults
		results, dispatchErr := s.dispatch(ctx, turn.Invocations)
		if dispatchErr != nil {
			s.state = StateFailed
			s.logger.Error("session.failed", "round", s.round, "error", dispatchErr.Error())
			return nil, dispatchErr
		}

		s.round++
		s.state = StateDrafting
		s.logger.Debug("session.round.resubmit", "round", s.round, "results", len(results))
		turn, err = s.model.Resume(ctx, turn.Continuation, results)
	}
}

func (s *Session) complete(text string) *Result {
	s.state = StateCompleted
	s.finalText = text
	s.logger.Info("session.completed", "rounds", s.round, "citations", len(s.citations))
	return &Result{Content: s.finalText, Citations: s.citations}
}

// dispatch executes every recognized invocation of one round and records
// exactly one result each. Web search, when declared in the registry, has
// no client-side executor (the backend runs it server-side); when it was
// never declared it is treated as an unrecognized request, like an unknown
// capability. All of these branches drop the invocation without a result,
// so the loop never stalls on them. A capability execution failure is fatal for the
// session: the error is returned and nothing is resubmitted.
func (s *Session) dispatch(ctx context.Context, invocations []core.Invocation) ([]core.InvocationResult, error) {
	results := make([]core.InvocationResult, 0, len(invocations))

	for _, inv := range invocations {
		switch v := inv.(type) {
		case core.ImageSearchInvocation:
			args := tool.ParseImageSearchArgs(v.RawArgs, s.defaultQuery)
			images, err := s.images.Search(ctx, args.Query, args.Count)
			if err != nil {
				return nil, err
			}
			s.logger.Info("session.tool.executed",
				"tool", core.CapabilityImageSearch,
				"query", args.Query, "count", args.Count, "returned", len(images))
			results = append(results, core.InvocationResult{
				ID:         v.ID,
				Capability: core.CapabilityImageSearch,
				Payload:    map[string]any{"images": images},
			})

		case core.WebSearchInvocation:
			if !s.registry.Has(core.CapabilityWebSearch) {
				// The capability was never declared for this
				// session, so this is the model requesting
				// something it was not offered.
				s.logger.Warn("session.invocation.unrecognized",
					"tool", core.CapabilityWebSearch)
				continue
			}
			// Recognized variant, but search executes inside the
			// model backend; a client-side request for it carries
			// nothing we can do.
			s.logger.Debug("session.invocation.dropped",
				"tool", core.CapabilityWebSearch, "reason", "no client-side executor")

		case core.UnknownInvocation:
			s.logger.Warn("session.invocation.unrecognized", "tool", v.Name)
		}
	}
	return results, nil
}

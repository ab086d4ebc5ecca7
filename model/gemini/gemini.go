// Package gemini implements model.Model on the Gemini API via the
// google.golang.org/genai SDK. Capability descriptors map to function
// declarations; the generic web search capability maps to the server-side
// GoogleSearch tool, so web lookups execute inside the backend and surface
// as grounding citations rather than client-side invocations.
package gemini

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/genai"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/logging"
	"github.com/lessonforge/lessonforge/model"
	"github.com/lessonforge/lessonforge/tool"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const serviceName = "gemini"

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Config configures the Gemini-backed model.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string
	// Model is the model identifier; empty selects DefaultModel.
	Model  string
	Logger logging.Logger
}

// Gemini drives generation against a single Gemini model. It is safe for
// concurrent use; per-session state lives entirely in continuation tokens.
type Gemini struct {
	client *genai.Client
	model  string
	logger logging.Logger
}

// New creates a Gemini model client. A missing API key is a ConfigError:
// the session cannot start and no partial attempt is made.
func New(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, &core.ConfigError{Field: "GEMINI_API_KEY"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

// continuation is the immutable snapshot of one exchange. Resume copies the
// content slice before appending, so handed-out tokens are never mutated.
type continuation struct {
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// Start implements model.Model.
func (g *Gemini) Start(ctx context.Context, req model.Request) (*model.Turn, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
		Tools: convertTools(req.Tools),
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: req.User}}},
	}
	return g.generate(ctx, contents, config)
}

// Resume implements model.Model. Only the capability results are submitted;
// the prior exchange travels inside the continuation token.
func (g *Gemini) Resume(ctx context.Context, cont model.Continuation, results []core.InvocationResult) (*model.Turn, error) {
	prev, ok := cont.(*continuation)
	if !ok {
		return nil, fmt.Errorf("unexpected continuation type %T", cont)
	}

	parts := make([]*genai.Part, 0, len(results))
	for _, res := range results {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       res.ID,
				Name:     res.Capability,
				Response: res.Payload,
			},
		})
	}

	contents := make([]*genai.Content, 0, len(prev.contents)+1)
	contents = append(contents, prev.contents...)
	contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})

	return g.generate(ctx, contents, prev.config)
}

// Info implements model.Model.
func (g *Gemini) Info() model.Info {
	return model.Info{Name: g.model, Provider: "gemini", SupportsTools: true}
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*model.Turn, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, core.NewUpstreamError(serviceName, 0, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, core.NewUpstreamError(serviceName, 0, fmt.Errorf("empty candidate set"))
	}
	candidate := resp.Candidates[0]

	turn := &model.Turn{}
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			rawArgs, _ := json.Marshal(part.FunctionCall.Args)
			turn.Invocations = append(turn.Invocations,
				core.ParseInvocation(part.FunctionCall.ID, part.FunctionCall.Name, string(rawArgs)))
		}
	}
	turn.Text = text.String()
	turn.Citations = extractCitations(candidate)

	// Snapshot into a fresh slice so the handed-out token stays immutable
	// no matter what the caller does with its own contents slice.
	history := make([]*genai.Content, 0, len(contents)+1)
	history = append(history, contents...)
	history = append(history, candidate.Content)
	turn.Continuation = &continuation{contents: history, config: config}

	g.logger.Debug("model.turn.completed",
		"model", g.model,
		"invocations", len(turn.Invocations),
		"citations", len(turn.Citations),
		"finish_reason", string(candidate.FinishReason),
	)
	return turn, nil
}

// convertTools maps the descriptor set onto genai tools. web_search becomes
// the backend-executed GoogleSearch tool; everything else is declared as a
// callable function.
func convertTools(descriptors []tool.Descriptor) []*genai.Tool {
	var tools []*genai.Tool
	var declarations []*genai.FunctionDeclaration

	for _, d := range descriptors {
		if d.Name == core.CapabilityWebSearch {
			tools = append(tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
			continue
		}

		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if len(d.Parameters) > 0 {
			raw, _ := json.Marshal(d.Parameters)
			var schema genai.Schema
			if err := json.Unmarshal(raw, &schema); err == nil {
				fd.Parameters = &schema
			}
		}
		declarations = append(declarations, fd)
	}

	if len(declarations) > 0 {
		tools = append(tools, &genai.Tool{FunctionDeclarations: declarations})
	}
	return tools
}

// extractCitations maps grounding chunks (web results consulted by the
// backend) into opaque citation fragments.
func extractCitations(candidate *genai.Candidate) []core.Citation {
	if candidate.GroundingMetadata == nil {
		return nil
	}
	var citations []core.Citation
	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		citations = append(citations, core.Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return citations
}

package generate

import (
	"context"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/logging"
	"github.com/lessonforge/lessonforge/model"
	"github.com/lessonforge/lessonforge/prompt"
	"github.com/lessonforge/lessonforge/tool"
)

// Generator is the single boundary operation of the core: it builds the
// prompts and capability set for a request, runs one Session, and returns
// the generated content with its citations. A Generator is immutable and
// safe for concurrent use; each Generate call instantiates its own Session.
type Generator struct {
	model  model.Model
	images ImageSearcher
	logger logging.Logger
}

// GeneratorConfig wires a Generator's collaborators.
type GeneratorConfig struct {
	Model  model.Model
	Images ImageSearcher
	Logger logging.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Generator{model: cfg.Model, images: cfg.Images, logger: logger}
}

// Generate produces one lesson plan for the request. The error, when
// non-nil, is the session's terminal failure: a core.UpstreamError from the
// model service or the image search API, surfaced without retry.
func (g *Generator) Generate(ctx context.Context, req core.GenerationRequest) (*Result, error) {
	digest := prompt.DigestUploads(req.Uploads)
	imageQuery := prompt.ResolveImageQuery(req)
	system, user := prompt.Build(req, digest, imageQuery)
	registry := tool.NewRegistry(req.IncludeWebSearch)

	session := NewSession(SessionConfig{
		Model:             g.model,
		Registry:          registry,
		Images:            g.images,
		DefaultImageQuery: imageQuery,
		Logger:            g.logger,
	})

	return session.Run(ctx, model.Request{
		System: system,
		User:   user,
		Tools:  registry.Descriptors(),
	})
}

// Package lessonforge provides a high-level façade over the generation
// core and its collaborators (model client, image search, lesson store,
// HTTP server) enabling a complete service to be assembled from
// configuration in one call. Most applications interact with this package
// by:
//  1. Creating an App via New() (loading config.yaml + environment)
//  2. Serving HTTP via Run(), or embedding App.Router() elsewhere
//
// The façade only wires; all behaviour lives in the underlying packages,
// which remain usable on their own.
package lessonforge

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lessonforge/lessonforge/config"
	"github.com/lessonforge/lessonforge/generate"
	"github.com/lessonforge/lessonforge/imagesearch"
	"github.com/lessonforge/lessonforge/logging"
	"github.com/lessonforge/lessonforge/model/gemini"
	"github.com/lessonforge/lessonforge/server"
	"github.com/lessonforge/lessonforge/store"
)

// Options configures the App instance.
type Options struct {
	// ConfigPath is the directory searched for config.yaml. Empty means
	// the working directory.
	ConfigPath string
	// Logger overrides the config-derived logger when non-nil.
	Logger logging.Logger
}

// App bundles the wired service components.
type App struct {
	Config    *config.Config
	Generator *generate.Generator
	Lessons   store.Store

	srv    *server.Server
	logger logging.Logger
}

// New loads configuration and wires the full service. A missing model
// credential fails here, immediately, with a core.ConfigError.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New(&logging.Config{
			Level:  logging.ParseLevel(cfg.Log.Level),
			Format: cfg.Log.Format,
		})
	}

	mdl, err := gemini.New(ctx, gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.Model,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	images := imagesearch.NewClient(imagesearch.Config{
		Endpoint:   cfg.ImageSearch.Endpoint,
		ThumbWidth: cfg.ImageSearch.ThumbWidth,
		RateLimit:  cfg.ImageSearch.RateLimit,
		Logger:     logger,
	})

	generator := generate.NewGenerator(generate.GeneratorConfig{
		Model:  mdl,
		Images: images,
		Logger: logger,
	})

	lessons := store.NewInMemoryStore()

	srv := server.New(server.Config{
		Generator:      generator,
		Store:          lessons,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	return &App{
		Config:    cfg,
		Generator: generator,
		Lessons:   lessons,
		srv:       srv,
		logger:    logger,
	}, nil
}

// Router returns the HTTP handler for embedding into an existing server.
func (a *App) Router() *gin.Engine { return a.srv.Router() }

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	httpSrv := &http.Server{Addr: a.Config.Addr, Handler: a.Router()}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server.listening", "addr", a.Config.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("server.shutdown")
		return httpSrv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

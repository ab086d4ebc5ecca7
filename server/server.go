// Package server exposes the service over HTTP: a multipart generation
// endpoint backed by the orchestrator core and JSON CRUD endpoints for
// stored lessons. It consumes nothing from the core beyond the Generate
// boundary operation and the lesson store interface.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/generate"
	"github.com/lessonforge/lessonforge/logging"
	"github.com/lessonforge/lessonforge/store"
)

// Generator is the single operation the HTTP layer needs from the core.
type Generator interface {
	Generate(ctx context.Context, req core.GenerationRequest) (*generate.Result, error)
}

// Config wires the server's collaborators.
type Config struct {
	Generator Generator
	Store     store.Store
	// RequestTimeout bounds one generation request; zero disables it.
	RequestTimeout time.Duration
	Logger         logging.Logger
}

// Server holds the HTTP handler dependencies.
type Server struct {
	generator Generator
	lessons   store.Store
	timeout   time.Duration
	logger    logging.Logger
}

// New constructs a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Server{
		generator: cfg.Generator,
		lessons:   cfg.Store,
		timeout:   cfg.RequestTimeout,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(s.logger), Recovery(s.logger))

	api := r.Group("/api")
	api.POST("/lessons/generate", s.handleGenerate)
	api.GET("/lessons", s.handleListLessons)
	api.POST("/lessons", s.handleCreateLesson)
	api.GET("/lessons/:id", s.handleGetLesson)
	api.PUT("/lessons/:id", s.handleUpdateLesson)
	api.DELETE("/lessons/:id", s.handleDeleteLesson)

	return r
}

// handleGenerate parses a multipart submission into a GenerationRequest,
// runs the generation session and returns the content with citations. Any
// failed session yields a single error message; no partial output.
func (s *Server) handleGenerate(c *gin.Context) {
	req, err := parseGenerationRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		var upstream *core.UpstreamError
		status := http.StatusInternalServerError
		if errors.As(err, &upstream) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":   result.Content,
		"citations": result.Citations,
	})
}

// parseGenerationRequest maps multipart form fields and file parts onto the
// immutable GenerationRequest.
func parseGenerationRequest(c *gin.Context) (core.GenerationRequest, error) {
	req := core.GenerationRequest{
		Topic:            c.PostForm("topic"),
		GradeLevel:       c.PostForm("grade_level"),
		Duration:         c.PostForm("duration"),
		Objectives:       c.PostForm("objectives"),
		IncludeWebSearch: cast.ToBool(c.PostForm("include_web_search")),
		ImageQuery:       c.PostForm("image_query"),
		VideoReference:   c.PostForm("video_url"),
	}
	if req.Topic == "" {
		return req, errors.New("topic is required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all; plain form submissions without
		// files are still valid.
		return req, nil
	}
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return req, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return req, err
		}
		req.Uploads = append(req.Uploads, core.UploadedFile{Name: fh.Filename, Data: data})
	}
	return req, nil
}

func (s *Server) handleListLessons(c *gin.Context) {
	lessons, err := s.lessons.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lessons)
}

func (s *Server) handleGetLesson(c *gin.Context) {
	lesson, err := s.lessons.Get(c.Param("id"))
	if err != nil {
		s.lessonError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (s *Server) handleCreateLesson(c *gin.Context) {
	var lesson core.Lesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := s.lessons.Create(&lesson)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateLesson(c *gin.Context) {
	var lesson core.Lesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson.ID = c.Param("id")
	updated, err := s.lessons.Update(&lesson)
	if err != nil {
		s.lessonError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteLesson(c *gin.Context) {
	if err := s.lessons.Delete(c.Param("id")); err != nil {
		s.lessonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) lessonError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Package server contains the dashboard web server: HTML page, JSON metrics
// API and the websocket endpoint that streams LLM analyses.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lumoshq/lumos/internal/models"
	"github.com/lumoshq/lumos/internal/types"
)

//go:embed templates/*
var templateFiles embed.FS

type Config struct {
	Port      int
	Streaming bool
}

type Server struct {
	config    Config
	posts     []models.Post
	analyzer  types.Analyzer
	logger    *slog.Logger
	templates *template.Template
}

func New(config Config, posts []models.Post, analyzer types.Analyzer, logger *slog.Logger) (*Server, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("no posts loaded")
	}
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		config:    config,
		posts:     posts,
		analyzer:  analyzer,
		logger:    logger,
		templates: templates,
	}, nil
}

// Router assembles the chi router for the dashboard.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/posts", s.handlePosts)
	r.Get("/api/metrics", s.handleMetrics)
	r.Get("/ws/analyze", s.handleAnalyzeWS)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// ListenAndServe runs the dashboard until the listener fails or ctx is
// cancelled, then drains in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streamed analyses hold the connection open
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("dashboard listening", slog.Int("port", s.config.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

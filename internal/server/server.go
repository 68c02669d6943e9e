// Package server provides the HTTP API for tradeprep.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/tradeprep/internal/config"
	"github.com/hyperjump/tradeprep/internal/declaration"
	"github.com/hyperjump/tradeprep/internal/pipeline"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "tradeprep"

// Server is the HTTP server for the preprocessing API.
type Server struct {
	pipeline    *pipeline.Pipeline
	declaration *declaration.Preprocessor
	config      *config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server. p serves requests without overrides, and its
// configuration is the base that per-request overrides are applied to.
func NewServer(p *pipeline.Pipeline, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		pipeline:    p,
		declaration: declaration.NewPreprocessor(logger),
		config:      cfg,
		logger:      logger,
	}
}

// Router returns the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/preprocess", s.handlePreprocess)
	r.Post("/api/v1/declaration", s.handleDeclaration)
	r.Get("/api/v1/config", s.handleConfig)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

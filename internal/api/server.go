// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/job-radar/internal/ingest"
	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/storage"
	"github.com/job-radar/internal/types"
)

// Store interfaces for dependency injection and testing

// RunnerInterface defines the ingestion operations the API can trigger.
type RunnerInterface interface {
	RunProvider(ctx context.Context, provider types.Provider) (ingest.Result, error)
	RunAll(ctx context.Context) ([]ingest.Result, error)
}

// PostingReader defines the read side of the posting store.
type PostingReader interface {
	List(ctx context.Context, f storage.ListFilter) ([]*models.Posting, int, error)
}

// SourceRegistry defines the source registration operations.
type SourceRegistry interface {
	Register(ctx context.Context, provider types.Provider, token, displayName string) error
	Deactivate(ctx context.Context, provider types.Provider, token string) error
	ListAll(ctx context.Context) ([]models.Source, error)
}

// StatusReader reports per-provider run freshness.
type StatusReader interface {
	Status(ctx context.Context, threshold time.Duration) ([]models.ProviderStatus, error)
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	postings   PostingReader
	sources    SourceRegistry
	status     StatusReader
	runner     RunnerInterface
	config     *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// CronSecret guards the run-trigger endpoints; empty disables the check.
	CronSecret string
	// StaleAfter is the default freshness threshold for /api/status.
	StaleAfter time.Duration
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	postings PostingReader,
	sources SourceRegistry,
	status StatusReader,
	runner RunnerInterface,
) *Server {
	// Encoded-path matching lets Workday full-URL tokens (which contain
	// %2F) survive as a single {token} segment.
	s := &Server{
		router:   mux.NewRouter().UseEncodedPath(),
		postings: postings,
		sources:  sources,
		status:   status,
		runner:   runner,
		config:   config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Job feed
	api.HandleFunc("/jobs", s.handleListJobs).Methods("GET")

	// Source registry
	api.HandleFunc("/sources", s.handleListSources).Methods("GET")
	api.HandleFunc("/sources", s.handleRegisterSource).Methods("POST")
	api.HandleFunc("/sources/detect", s.handleDetectSource).Methods("POST")
	api.HandleFunc("/sources/{provider}/{token}", s.handleDeactivateSource).Methods("DELETE")

	// Run triggers and freshness
	api.HandleFunc("/run", s.handleRunAll).Methods("POST")
	api.HandleFunc("/run/{provider}", s.handleRunProvider).Methods("POST")
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "job-radar",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

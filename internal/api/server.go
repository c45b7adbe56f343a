package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/natetalley/batchin/internal/archive"
	"github.com/natetalley/batchin/internal/config"
	"github.com/natetalley/batchin/internal/pipeline"
)

// Server is the HTTP API server for batchin.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	archive      *archive.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, ac *archive.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		archive:      ac,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/chunk", s.handleChunk)
		r.Post("/api/records", s.handleRecords)
		r.Post("/api/decode", s.handleDecode)

		r.Post("/api/flatten/paths", s.handleFlattenPaths)
		r.Post("/api/flatten", s.handleFlatten)
		r.Post("/api/flatten/output", s.handleFlattenOutput)

		r.Post("/api/batch", s.handleBatchBuild)
		r.Get("/api/batch/{jobID}/status", s.handleBatchStatus)
		r.Get("/api/batch/{jobID}/result", s.handleBatchResult)
		r.Post("/api/batch/inference", s.handleBuildInference)
		r.Post("/api/batch/finetune", s.handleBuildFinetune)

		r.Post("/api/archive/download", s.handleArchiveDownload)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

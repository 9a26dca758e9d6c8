package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/docstore"
	"github.com/dgallion1/docstruct/internal/infer"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docstruct.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *docstore.Store
	infer        *infer.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. inf may be nil when
// structure inference is disabled.
func NewServer(orch *pipeline.Orchestrator, store *docstore.Store, inf *infer.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		infer:        inf,
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
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/process", s.handleProcess)
		r.Post("/api/process/extracted", s.handleProcessExtracted)
		r.Get("/api/process/{jobID}/status", s.handleProcessStatus)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Get("/api/documents/{docID}/index", s.handleGetIndex)
		r.Get("/api/documents/{docID}/questions", s.handleGetQuestions)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Get("/api/stats/infer", s.handleInferStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

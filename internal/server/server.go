// Package server exposes the chat backend over HTTP: streamed chat,
// uploads, training control with live status over WebSocket, and store
// management.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/datachat-ai/datachat/internal/chat"
	"github.com/datachat-ai/datachat/internal/docstore"
	"github.com/datachat-ai/datachat/internal/flatindex"
	"github.com/datachat-ai/datachat/internal/history"
	"github.com/datachat-ai/datachat/internal/ingest"
	"github.com/datachat-ai/datachat/internal/retrieval"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	UploadsDir     string
	DatasetsDir    string
	AllowedOrigins []string
}

// Deps are the wired application components the handlers delegate to.
type Deps struct {
	Engine    *chat.Engine
	Sessions  *chat.SessionStore
	Retriever *retrieval.Retriever
	Runner    *ingest.Runner
	Ingestor  *ingest.DocumentPipeline
	Documents *docstore.Store
	Tables    *flatindex.Store
	Runs      *history.Store
	// SetAPIKey persists a key supplied at runtime and rewires the
	// OpenAI clients with it.
	SetAPIKey func(key string) error
}

// Server is the datachat HTTP server.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/dataset/chat", s.handleDatasetChat)

		r.Post("/upload", s.handleUpload)
		r.Post("/upload/dataset", s.handleUploadDataset)

		r.Post("/train", s.handleTrain)
		r.Post("/train/dataset", s.handleTrainDataset)
		r.Get("/train/status", s.handleTrainStatus)
		r.Get("/train/ws", s.handleTrainWS)
		r.Get("/train/history", s.handleTrainHistory)

		r.Post("/reset", s.handleReset)
		r.Delete("/documents", s.handleDeleteDocuments)
		r.Post("/input/key", s.handleInputKey)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("datachat server listening on %s", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/texotip/internal/annotate"
	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/live"
)

// Server serves the generated site, the dictionary and annotate APIs, and
// the live popover websocket.
type Server struct {
	cfg        config.Config
	annotator  *annotate.Annotator
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. The annotator must be built from cfg.
func New(cfg config.Config, annotator *annotate.Annotator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:       cfg,
		annotator: annotator,
		logger:    logger,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.Server.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/dictionary", s.handleDictionary)
		r.Get("/dictionary/lint", s.handleLint)
		r.Post("/annotate", s.handleAnnotate)
	})

	// The websocket outlives any request timeout.
	r.Handle("/live", live.NewHandler(s.cfg, s.sitePage, s.logger))

	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Site.OutputDir)))

	return r
}

// sitePage reads a generated page for the live handler. Names are
// confined to the output directory.
func (s *Server) sitePage(_ context.Context, name string) (string, error) {
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	clean := path.Clean("/" + name)
	data, err := os.ReadFile(filepath.Join(s.cfg.Site.OutputDir, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", live.ErrPageNotFound, clean)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("texotip server listening", "addr", addr, "site", s.cfg.Site.OutputDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Package server provides the HTTP server and routing for the risk parity portal.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/riskparity/internal/config"
	"github.com/aristath/riskparity/internal/modules/frontier"
	"github.com/aristath/riskparity/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/riskparity/internal/modules/portfolio/handlers"
	"github.com/aristath/riskparity/internal/modules/scenarios"
	"github.com/aristath/riskparity/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	Config           *config.Config
	PortfolioService *portfolio.Service
	FrontierService  *frontier.Service
	ScenarioCatalog  *scenarios.Catalog
	DevMode          bool
}

// Server represents the HTTP server
type Server struct {
	router           *chi.Mux
	server           *http.Server
	log              zerolog.Logger
	cfg              *config.Config
	portfolioService *portfolio.Service
	frontierService  *frontier.Service
	scenarioCatalog  *scenarios.Catalog
	systemHandlers   *SystemHandlers
	startedAt        time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".mjs", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		router:           chi.NewRouter(),
		log:              cfg.Log.With().Str("component", "server").Logger(),
		cfg:              cfg.Config,
		portfolioService: cfg.PortfolioService,
		frontierService:  cfg.FrontierService,
		scenarioCatalog:  cfg.ScenarioCatalog,
		startedAt:        time.Now(),
	}
	s.systemHandlers = NewSystemHandlers(cfg.Log, s.startedAt)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(30 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})

		portfolioHandler := portfoliohandlers.NewHandler(s.portfolioService, s.log)
		portfolioHandler.RegisterRoutes(r)

		frontierHandler := frontier.NewHandler(s.frontierService, s.log)
		frontierHandler.RegisterRoutes(r)

		scenarioHandler := scenarios.NewHandler(s.scenarioCatalog, s.log)
		scenarioHandler.RegisterRoutes(r)

		r.Get("/defaults", s.handleDefaults)
	})

	s.setupFrontend()
}

// setupFrontend serves the built single-page frontend from the embedded
// filesystem, with index.html as the SPA fallback for non-API routes.
func (s *Server) setupFrontend() {
	frontendFS, err := fs.Sub(embedded.Files, "frontend/dist")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		return
	}

	fileServer := http.FileServer(http.FS(frontendFS))
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.serveIndex(w, frontendFS)
	})
	s.router.Handle("/assets/*", fileServer)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.serveIndex(w, frontendFS)
	})
}

// serveIndex writes the embedded index.html (SPA shell)
func (s *Server) serveIndex(w http.ResponseWriter, frontendFS fs.FS) {
	indexFile, err := frontendFS.Open("index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to open embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	defer indexFile.Close()

	data, err := io.ReadAll(indexFile)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write index.html response")
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the chi router (used by tests)
func (s *Server) Router() http.Handler {
	return s.router
}

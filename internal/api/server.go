// Package api provides the HTTP API for passages, verse search and sermon outlines.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Fabioalbuqueque/pregacao/internal/http/response"
)

// Options configures the HTTP layer.
type Options struct {
	Title       string
	Version     string
	CORSOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	router   chi.Router
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates the router, the huma API and registers every route.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Pregação API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(recoverer(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	humaConfig := huma.DefaultConfig(opts.Title, opts.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	RegisterErrorHandler()
	api := humachi.New(router, humaConfig)

	s := &Server{
		services: services,
		router:   router,
		api:      api,
		logger:   logger,
	}

	s.registerHealthRoutes()
	s.registerReferenceRoutes()
	s.registerPassageRoutes()
	s.registerSearchRoutes()
	s.registerOutlineRoutes()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path, logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method+" not allowed on "+r.URL.Path, logger)
	})

	if services.Metrics != nil {
		router.Handle("/metrics", services.Metrics.Handler())
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API (OpenAPI document, tests).
func (s *Server) API() huma.API {
	return s.api
}

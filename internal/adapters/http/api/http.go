// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/sketchrec/pkg/logger"
)

// Defaults used when no option overrides them.
const (
	defaultMaxBodyBytes = 4 << 20
	defaultMaxTop       = 50
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClassifyDependencies
	TemplateDependencies
	StatsProvider
}

// Server wires HTTP routes for the recognizer API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	classifyHandler  *ClassifyHandler
	templatesHandler *TemplatesHandler

	maxBodyBytes int64
	maxTop       int
	logger       logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMaxTop caps the number of candidates a classify request may ask for.
func WithMaxTop(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTop = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxBodyBytes: defaultMaxBodyBytes,
		maxTop:       defaultMaxTop,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.classifyHandler = NewClassifyHandler(deps, s.maxTop, s.logger)
	s.templatesHandler = NewTemplatesHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.limitBody(s.classifyHandler.HandleClassify), "classify"))
	mux.HandleFunc("/templates", MetricsMiddleware(s.limitBody(s.templatesHandler.HandleTemplates), "templates"))
	mux.HandleFunc("/templates/", MetricsMiddleware(s.templatesHandler.HandleTemplate, "template"))
}

// Handler returns a mux with every route registered, wrapped so each request
// carries an X-Request-ID.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return RequestIDMiddleware(mux)
}

func (s *Server) limitBody(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		next(w, r)
	}
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/internal/domain/registry"
	"github.com/okian/activities/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	List(ctx context.Context) map[string]model.Activity
	Get(ctx context.Context, name string) (model.Activity, error)
	Signup(ctx context.Context, name, email string) (string, error)
	Unregister(ctx context.Context, name, email string) (string, error)
	Count(ctx context.Context) int
}

// Server wires HTTP routes for the business API.
type Server struct {
	activitiesHandler *ActivitiesHandler
	rootHandler       *RootHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler

	landingPage string
	logger      logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLandingPage sets the redirect target of GET /.
func WithLandingPage(path string) ServerOption {
	return func(s *Server) {
		if path != "" {
			s.landingPage = path
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{landingPage: "/static/index.html"}
	for _, opt := range opts {
		opt(s)
	}
	s.activitiesHandler = NewActivitiesHandler(deps)
	s.rootHandler = NewRootHandler(s.landingPage)
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(statsProvider)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("GET /activities/{name}", MetricsMiddleware(s.activitiesHandler.HandleGet, "activity"))
	mux.HandleFunc("POST /activities/{name}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))
	mux.HandleFunc("DELETE /activities/{name}/unregister", MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister"))
}

// Wrap decorates the full route tree with request IDs and access logging.
func (s *Server) Wrap(next http.Handler) http.Handler {
	l := s.logger
	if l == nil {
		l = logger.Get()
	}
	return RequestMiddleware(next, l)
}

type messageResponse struct {
	Message string `json:"message"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes {"detail": ...}.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, detailResponse{Detail: detailFor(err, status)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// detailFor returns the client-facing text. Internal errors never leak their cause.
func detailFor(err error, status int) string {
	if d := registry.Detail(err); d != "" {
		return d
	}
	if status == http.StatusInternalServerError {
		return http.StatusText(status)
	}
	var oe *OpError
	if errors.As(err, &oe) && oe.Err != nil {
		return oe.Err.Error()
	}
	return http.StatusText(status)
}

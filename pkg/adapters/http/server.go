package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/logging"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Planner is the subset of hornbill.Planner the HTTP API drives.
type Planner interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
	SelectDates(ctx context.Context, sessionID string, in domain.DateInput) (*domain.Session, error)
	SelectDestinations(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectExperiences(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectCurrency(ctx context.Context, sessionID, code string) (*domain.Session, error)
	UpdateContact(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error)
	Advance(ctx context.Context, sessionID string) (*domain.Session, error)
	Retreat(ctx context.Context, sessionID string) (*domain.Session, error)
	Submit(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error)
	Summarize(s *domain.Session) domain.Summary
	AvailableDestinations(ctx context.Context, sessionID, category string) ([]catalog.Destination, error)
}

var _ Planner = (*hornbill.Planner)(nil)

// Server serves the planner over JSON and Server-Sent Events.
type Server struct {
	Planner Planner
	Streams *StreamManager
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStreams shares a StreamManager, e.g. between several handlers.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		if sm != nil {
			s.Streams = sm
		}
	}
}

// NewHandler creates a new HTTP handler for the planner.
func NewHandler(p Planner, opts ...Option) http.Handler {
	s := &Server{
		Planner: p,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", s.GetCatalog)
		r.Get("/destinations", s.GetCatalogDestinations)
		r.Get("/experiences", s.GetCatalogExperiences)
		r.Get("/currencies", s.GetCatalogCurrencies)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/summary", s.GetSummary)
			r.Get("/summary.html", s.GetSummaryHTML)
			r.Get("/destinations", s.GetAvailableDestinations)
			r.Get("/events", s.SubscribeEvents)

			r.Put("/dates", s.PutDates)
			r.Put("/destinations", s.PutDestinations)
			r.Put("/experiences", s.PutExperiences)
			r.Put("/currency", s.PutCurrency)
			r.Put("/contact", s.PutContact)

			r.Post("/advance", s.PostAdvance)
			r.Post("/retreat", s.PostRetreat)
			r.Post("/submit", s.PostSubmit)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Hornbill API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := LoadOpenAPI(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "hornbill-http",
		"version":     strings.TrimSpace(hornbill.Version),
		"api_version": apiVersion,
	})
}

// errorBody is the JSON shape of every non-validation failure.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// sessionResponse is returned by every session endpoint.
type sessionResponse struct {
	Session *domain.Session         `json:"session"`
	Summary domain.Summary          `json:"summary"`
	Error   *domain.ValidationError `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	var body errorBody
	body.Error.Message = err.Error()
	s.writeJSON(w, status, body)
}

// statusFor maps planner errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionSubmitted), errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownPreset), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

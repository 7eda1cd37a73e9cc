package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/propbind"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Server implements the generated ServerInterface over an inspector.
type Server struct {
	Inspector *inspect.Inspector
	gatherer  prometheus.Gatherer
	logger    *slog.Logger

	resolver *substitute.Resolver
	hooks    domain.LifecycleHooks
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*Server)

// WithMetrics serves the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithResolver replaces the default substitution resolver.
func WithResolver(r *substitute.Resolver) Option {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithLifecycleHooks registers hooks fired for every key served.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger sets the logger used for encoding failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the inspection handler for src. Routes follow
// api/openapi.yaml; the document itself is served on GET /openapi.yaml and
// metrics on GET /metrics when WithMetrics is set.
func NewHandler(src ports.Source, opts ...Option) http.Handler {
	s := &Server{
		logger:   slog.Default(),
		resolver: substitute.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Inspector = inspect.New(src, inspect.WithResolver(s.resolver), inspect.WithLifecycleHooks(s.hooks))

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return HandlerFromMux(s, r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Health{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Info{
		App:     "propbind-http",
		Version: strings.TrimSpace(propbind.Version),
		Source:  s.Inspector.Source().String(),
	})
}

// ListKeys handles the GET /keys request.
func (s *Server) ListKeys(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Inspector.List()
	if errors.Is(err, inspect.ErrNotEnumerable) {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = toEntry(e)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetKey handles the GET /keys/{key} request.
func (s *Server) GetKey(w http.ResponseWriter, r *http.Request, key string, params GetKeyParams) {
	verbatim := params.Verbatim != nil && *params.Verbatim
	e, ok := s.Inspector.Get(key, verbatim)
	if !ok {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, toEntry(e))
}

// CheckReferences handles the GET /check request.
func (s *Server) CheckReferences(w http.ResponseWriter, r *http.Request) {
	problems, err := s.Inspector.Check()
	if errors.Is(err, inspect.ErrNotEnumerable) {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}
	out := make([]Problem, len(problems))
	for i, p := range problems {
		out[i] = Problem{Key: p.Key, Kind: ProblemKind(p.Kind), Detail: p.Detail}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func toEntry(e inspect.Entry) Entry {
	out := Entry{Key: e.Key, Raw: e.Raw}
	if e.Err != nil {
		msg := e.Err.Error()
		out.Error = &msg
		return out
	}
	value := e.Value
	out.Value = &value
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

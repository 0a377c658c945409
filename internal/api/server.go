// Package api implements the HTTP form host for the audit planner.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/planner"
	"github.com/nyashahama/audit-planner/internal/session"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// RequestTimeout bounds every request, a full generation included.
	// Defaults to 3 minutes.
	RequestTimeout time.Duration
}

// Planner generates and exports audit plans. *planner.Service satisfies it.
type Planner interface {
	Generate(ctx context.Context, in audit.Inputs) (audit.Record, error)
	Export(rec audit.Record, kind planner.ExportKind) (planner.Artifact, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// planner runs generations and renders downloads.
	planner Planner

	// session holds the draft form and the record history.
	session *session.Session

	// gatherer backs GET /metrics.
	gatherer prometheus.Gatherer

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe. A nil gatherer
// serves the default Prometheus registry.
func NewServer(
	p Planner,
	sess *session.Session,
	gatherer prometheus.Gatherer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Minute
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		planner:  p,
		session:  sess,
		gatherer: gatherer,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// ── Health & metrics ──────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleGetOptions)

		// Draft: the single operator's in-progress form.
		r.Route("/draft", func(r chi.Router) {
			r.Get("/", s.handleGetDraft)
			r.Patch("/", s.handleUpdateDraft)
			r.Delete("/", s.handleResetDraft)
			r.Post("/personnel", s.handleAddPersonnel)
			r.Patch("/personnel/{index}", s.handleUpdatePersonnel)
			r.Delete("/personnel/{index}", s.handleRemovePersonnel)
			r.Post("/generate", s.handleGenerateFromDraft)
		})

		// Plans: generated records, most recent first.
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", s.handleCreatePlan)
			r.Get("/", s.handleListPlans)
			r.Get("/{recordID}", s.handleGetPlan)
			r.Get("/{recordID}/download/{kind}", s.handleDownloadPlan)
		})
	})

	return r
}

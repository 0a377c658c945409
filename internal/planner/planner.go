// Package planner coordinates one audit-plan generation: validate the inputs,
// collect risk signals, ask the model for a risk analysis and a plan, then
// record the result. It also exports stored records as downloadable files.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyashahama/audit-planner/internal/ai"
	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/document"
	"github.com/nyashahama/audit-planner/internal/history"
	"github.com/nyashahama/audit-planner/internal/metrics"
	"github.com/nyashahama/audit-planner/internal/risk"
)

// Service holds the dependencies for the generate-and-export pipeline. Each
// step is a separate call so Generate reads top to bottom like the flow it
// implements.
type Service struct {
	risks     risk.Provider
	generator ai.Generator
	history   *history.Store
	builder   *document.Builder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBuilder replaces the default document builder.
func WithBuilder(b *document.Builder) Option {
	return func(s *Service) { s.builder = b }
}

// New constructs a Service. m may be nil.
func New(
	risks risk.Provider,
	generator ai.Generator,
	hist *history.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		risks:     risks,
		generator: generator,
		history:   hist,
		builder:   document.NewBuilder(),
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History exposes the store records are appended to.
func (s *Service) History() *history.Store { return s.history }

// Builder exposes the document builder used for exports.
func (s *Service) Builder() *document.Builder { return s.builder }

// Generate runs the full pipeline for one set of inputs:
//
//  1. Normalise and validate the inputs.
//  2. Fetch risk signals (never fails; falls back to the fixed table).
//  3. Ask for a risk analysis. A failure here is logged and the plan is
//     generated without it.
//  4. Ask for the audit plan. A failure here is returned and nothing is
//     recorded.
//  5. Snapshot the record and append it to the history.
//
// Errors are a *audit.ValidationError or wrap ai.ErrGenerationFailed.
func (s *Service) Generate(ctx context.Context, in audit.Inputs) (audit.Record, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveGenerationLatency(time.Since(start)) }()

	// ── 1. Validate ───────────────────────────────────────────────────────────
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		s.metrics.IncrementGeneration(metrics.OutcomeValidationFailed)
		return audit.Record{}, err
	}

	log := s.logger.With("company", in.CompanyName, "sector", in.Sector)
	log.Info("planner: generation started", "personnel", len(in.Personnel))

	// ── 2. Risk signals ───────────────────────────────────────────────────────
	risks := s.risks.Fetch(ctx, in.CompanyName, string(in.Sector), in.Description)
	log.Debug("planner: risk signals collected", "signals", risks.Total())

	// ── 3. Risk analysis (non-fatal) ──────────────────────────────────────────
	analysis, err := s.generator.AnalyzeRisk(ctx, ai.BuildRiskAnalysisPrompt(in, risks))
	if err != nil {
		// The plan is still useful without the analysis; the prompt says so.
		log.Warn("planner: risk analysis failed, continuing without it", "error", err)
		s.metrics.IncrementRiskAnalysisDegraded()
		analysis = ""
	}

	// ── 4. Plan (fatal) ───────────────────────────────────────────────────────
	plan, err := s.generator.GeneratePlan(ctx, ai.BuildPlanPrompt(in, risks, analysis))
	if err != nil {
		s.metrics.IncrementGeneration(metrics.OutcomeGenerationFailed)
		log.Error("planner: plan generation failed", "error", err)
		if !errors.Is(err, ai.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", ai.ErrGenerationFailed, err)
		}
		return audit.Record{}, fmt.Errorf("planner: generate plan: %w", err)
	}

	// ── 5. Record ─────────────────────────────────────────────────────────────
	rec := audit.NewRecord(s.now(), in, risks, analysis, plan)
	s.history.Append(rec)
	s.metrics.SetHistoryRecords(s.history.Len())
	s.metrics.IncrementGeneration(metrics.OutcomeSuccess)

	log.Info("planner: generation finished",
		"record_id", rec.ID,
		"has_risk_analysis", rec.HasRiskAnalysis(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nyashahama/audit-planner/internal/ai"
	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/document"
	"github.com/nyashahama/audit-planner/internal/history"
	"github.com/nyashahama/audit-planner/internal/planner"
	"github.com/nyashahama/audit-planner/internal/risk"
)

// ─── RESPONSE SHAPES ──────────────────────────────────────────────────────────

type sectionResponse struct {
	Title      string   `json:"title,omitempty"`
	Paragraphs []string `json:"paragraphs"`
}

type recordBody struct {
	ID            string              `json:"id"`
	Timestamp     string              `json:"timestamp"`
	Inputs        inputsPayload       `json:"inputs"`
	Risks         map[string][]string `json:"risks"`
	RiskAnalysis  string              `json:"risk_analysis,omitempty"`
	PlanNarrative string              `json:"plan_narrative"`
	Sections      []sectionResponse   `json:"sections"`
	Downloads     map[string]string   `json:"downloads"`
}

type planSummary struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	AuditPeriod string `json:"audit_period"`
}

func recordResponse(rec audit.Record) recordBody {
	risks := make(map[string][]string, len(risk.Categories))
	for _, c := range risk.Categories {
		risks[string(c)] = append([]string{}, rec.Risks[c]...)
	}

	parsed := document.ParseSections(rec.PlanNarrative)
	sections := make([]sectionResponse, len(parsed))
	for i, sec := range parsed {
		sections[i] = sectionResponse{Title: sec.Title, Paragraphs: sec.Paragraphs}
	}

	downloads := make(map[string]string, len(planner.ExportKinds))
	for _, k := range planner.ExportKinds {
		downloads[string(k)] = "/api/plans/" + rec.ID.String() + "/download/" + string(k)
	}

	return recordBody{
		ID:            rec.ID.String(),
		Timestamp:     rec.Timestamp.UTC().Format(time.RFC3339),
		Inputs:        inputsResponse(rec.Inputs),
		Risks:         risks,
		RiskAnalysis:  rec.RiskAnalysis,
		PlanNarrative: rec.PlanNarrative,
		Sections:      sections,
		Downloads:     downloads,
	}
}

// ─── POST /api/plans ──────────────────────────────────────────────────────────

// handleCreatePlan generates a plan from the request body without touching
// the draft. This is the scripted counterpart of POST /api/draft/generate.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req inputsPayload
	if !decode(w, r, &req) {
		return
	}
	in, err := req.toInputs()
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.planner.Generate(r.Context(), in)
	if err != nil {
		s.respondGenerateErr(w, r, err)
		return
	}
	respond(w, http.StatusCreated, recordResponse(rec))
}

// ─── GET /api/plans ───────────────────────────────────────────────────────────

// handleListPlans returns the session history, most recent first.
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	records := s.session.History().ListForDisplay()
	out := make([]planSummary, len(records))
	for i, rec := range records {
		out[i] = planSummary{
			ID:          rec.ID.String(),
			Timestamp:   rec.Timestamp.UTC().Format(time.RFC3339),
			CompanyName: rec.Inputs.CompanyName,
			Sector:      string(rec.Inputs.Sector),
			AuditPeriod: rec.Inputs.AuditPeriod(),
		}
	}
	respond(w, http.StatusOK, map[string]any{"plans": out})
}

// ─── GET /api/plans/:recordID ─────────────────────────────────────────────────

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, recordResponse(rec))
}

// ─── GET /api/plans/:recordID/download/:kind ──────────────────────────────────

// handleDownloadPlan streams one export as an attachment. Rendering is
// deterministic, so repeated downloads of a record return identical bytes.
func (s *Server) handleDownloadPlan(w http.ResponseWriter, r *http.Request) {
	kind, err := planner.ParseExportKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondErr(w, http.StatusNotFound, "unknown download kind")
		return
	}
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}

	artifact, err := s.planner.Export(rec, kind)
	if err != nil {
		// Render failures (render.ErrRender) are already logged by the planner.
		s.respondInternalErr(w, r, fmt.Errorf("export %s: %w", kind, err))
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// lookupRecord resolves {recordID}. Returns false after writing 400 for a
// malformed id or 404 for an unknown one.
func (s *Server) lookupRecord(w http.ResponseWriter, r *http.Request) (audit.Record, bool) {
	id, err := recordIDParam(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid record id")
		return audit.Record{}, false
	}
	rec, err := s.session.History().Get(id)
	if errors.Is(err, history.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "plan not found")
		return audit.Record{}, false
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get record: %w", err))
		return audit.Record{}, false
	}
	return rec, true
}

type validationResponse struct {
	Error  string             `json:"error"`
	Fields []audit.FieldError `json:"fields"`
}

// respondGenerateErr maps a generation failure to its status code:
// invalid inputs are 422 with every failed field, a failed model call is
// 502, anything else is 500.
func (s *Server) respondGenerateErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *audit.ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusUnprocessableEntity, validationResponse{
			Error:  "invalid inputs",
			Fields: verr.Fields,
		})
	case errors.Is(err, ai.ErrGenerationFailed):
		s.logger.Warn("generate: model call failed", "error", err, logField(r))
		respondErr(w, http.StatusBadGateway, "plan generation failed, please try again")
	default:
		s.respondInternalErr(w, r, err)
	}
}

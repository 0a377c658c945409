package api

import (
	"net/http"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/planner"
)

// ─── GET /api/options ─────────────────────────────────────────────────────────

type optionsResponse struct {
	Sectors                []string `json:"sectors"`
	Roles                  []string `json:"roles"`
	DefaultRole            string   `json:"default_role"`
	ComplianceRequirements []string `json:"compliance_requirements"`
	AuditFocusAreas        []string `json:"audit_focus_areas"`
	Downloads              []string `json:"downloads"`
}

// handleGetOptions returns the closed lists the form offers as choices.
func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, optionsResponse{
		Sectors:                convertAll[string](audit.Sectors),
		Roles:                  convertAll[string](audit.Roles),
		DefaultRole:            string(audit.DefaultRole),
		ComplianceRequirements: convertAll[string](audit.ComplianceRequirements),
		AuditFocusAreas:        convertAll[string](audit.FocusAreas),
		Downloads:              convertAll[string](planner.ExportKinds),
	})
}

package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/audit-planner/internal/risk"
)

// Record is the snapshot of one successful generation. Records are built
// from deep copies and handed out as values, so nothing outside NewRecord
// can change one after it is created.
type Record struct {
	ID            uuid.UUID    `json:"id"`
	Timestamp     time.Time    `json:"timestamp"`
	Inputs        Inputs       `json:"inputs"`
	Risks         risk.Buckets `json:"risks"`
	RiskAnalysis  string       `json:"risk_analysis,omitempty"`
	PlanNarrative string       `json:"plan_narrative"`
}

// NewRecord snapshots one generation. riskAnalysis may be empty when the
// analysis call failed.
func NewRecord(at time.Time, in Inputs, risks risk.Buckets, riskAnalysis, plan string) Record {
	return Record{
		ID:            uuid.New(),
		Timestamp:     at,
		Inputs:        in.Clone(),
		Risks:         risks.Clone(),
		RiskAnalysis:  riskAnalysis,
		PlanNarrative: plan,
	}
}

// HasRiskAnalysis reports whether the risk analysis step produced text.
func (r Record) HasRiskAnalysis() bool {
	return strings.TrimSpace(r.RiskAnalysis) != ""
}

// Clone returns a deep copy so callers can hold a record without sharing
// its slices or maps.
func (r Record) Clone() Record {
	out := r
	out.Inputs = r.Inputs.Clone()
	out.Risks = r.Risks.Clone()
	return out
}

// ─── ARTIFACT NAMING ──────────────────────────────────────────────────────────

// FileName returns "audit_plan_<company>_<YYYYMMDD><suffix>", dated from the
// record timestamp. suffix carries the extension, e.g. ".pdf".
func (r Record) FileName(suffix string) string {
	return "audit_plan_" + safeFileComponent(r.Inputs.CompanyName) + "_" + r.Timestamp.Format("20060102") + suffix
}

// safeFileComponent keeps the company name readable while replacing the
// characters that would break a path or a Content-Disposition header.
func safeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == '"', r == '\'', r == ':':
			return '_'
		case r < 0x20, r == 0x7f:
			return '_'
		}
		return r
	}, s)
}

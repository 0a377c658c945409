package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/session"
)

// dateLayout is the wire format for audit period dates, as sent by an HTML
// date input.
const dateLayout = "2006-01-02"

type personnelPayload struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// inputsPayload is the JSON shape of audit.Inputs. Dates are YYYY-MM-DD and
// empty when unset.
type inputsPayload struct {
	CompanyName            string             `json:"company_name"`
	Description            string             `json:"description"`
	Sector                 string             `json:"sector"`
	StartDate              string             `json:"start_date"`
	EndDate                string             `json:"end_date"`
	Personnel              []personnelPayload `json:"personnel"`
	ComplianceRequirements []string           `json:"compliance_requirements"`
	AuditFocusAreas        []string           `json:"audit_focus_areas"`
	SpecialConsiderations  string             `json:"special_considerations"`
}

// toInputs converts the payload. Only a malformed date is an error here;
// everything else is checked by audit.Inputs.Validate.
func (p inputsPayload) toInputs() (audit.Inputs, error) {
	start, err := parseDate("start_date", p.StartDate)
	if err != nil {
		return audit.Inputs{}, err
	}
	end, err := parseDate("end_date", p.EndDate)
	if err != nil {
		return audit.Inputs{}, err
	}
	return audit.Inputs{
		CompanyName:            p.CompanyName,
		Description:            p.Description,
		Sector:                 audit.Sector(p.Sector),
		StartDate:              start,
		EndDate:                end,
		Personnel:              toPersonnel(p.Personnel),
		ComplianceRequirements: convertAll[audit.ComplianceRequirement](p.ComplianceRequirements),
		AuditFocusAreas:        convertAll[audit.FocusArea](p.AuditFocusAreas),
		SpecialConsiderations:  p.SpecialConsiderations,
	}, nil
}

func inputsResponse(in audit.Inputs) inputsPayload {
	personnel := make([]personnelPayload, len(in.Personnel))
	for i, p := range in.Personnel {
		personnel[i] = personnelPayload{Name: p.Name, Role: string(p.Role)}
	}
	return inputsPayload{
		CompanyName:            in.CompanyName,
		Description:            in.Description,
		Sector:                 string(in.Sector),
		StartDate:              formatDate(in.StartDate),
		EndDate:                formatDate(in.EndDate),
		Personnel:              personnel,
		ComplianceRequirements: convertAll[string](in.ComplianceRequirements),
		AuditFocusAreas:        convertAll[string](in.AuditFocusAreas),
		SpecialConsiderations:  in.SpecialConsiderations,
	}
}

// draftPatch is the PATCH /api/draft body. Absent fields are left alone.
type draftPatch struct {
	CompanyName            *string             `json:"company_name"`
	Description            *string             `json:"description"`
	Sector                 *string             `json:"sector"`
	StartDate              *string             `json:"start_date"`
	EndDate                *string             `json:"end_date"`
	Personnel              *[]personnelPayload `json:"personnel"`
	ComplianceRequirements *[]string           `json:"compliance_requirements"`
	AuditFocusAreas        *[]string           `json:"audit_focus_areas"`
	SpecialConsiderations  *string             `json:"special_considerations"`
}

func (p draftPatch) toPatch() (session.Patch, error) {
	out := session.Patch{
		CompanyName:           p.CompanyName,
		Description:           p.Description,
		SpecialConsiderations: p.SpecialConsiderations,
	}
	if p.Sector != nil {
		sector := audit.Sector(*p.Sector)
		out.Sector = &sector
	}
	if p.StartDate != nil {
		t, err := parseDate("start_date", *p.StartDate)
		if err != nil {
			return session.Patch{}, err
		}
		out.StartDate = &t
	}
	if p.EndDate != nil {
		t, err := parseDate("end_date", *p.EndDate)
		if err != nil {
			return session.Patch{}, err
		}
		out.EndDate = &t
	}
	if p.Personnel != nil {
		personnel := toPersonnel(*p.Personnel)
		out.Personnel = &personnel
	}
	if p.ComplianceRequirements != nil {
		reqs := convertAll[audit.ComplianceRequirement](*p.ComplianceRequirements)
		out.ComplianceRequirements = &reqs
	}
	if p.AuditFocusAreas != nil {
		areas := convertAll[audit.FocusArea](*p.AuditFocusAreas)
		out.AuditFocusAreas = &areas
	}
	return out, nil
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// parseDate reads YYYY-MM-DD, falling back to RFC 3339. Empty is the zero
// time, which validation reports as missing.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s: expected a date as YYYY-MM-DD, got %q", field, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func toPersonnel(rows []personnelPayload) []audit.Personnel {
	out := make([]audit.Personnel, len(rows))
	for i, p := range rows {
		out[i] = audit.Personnel{Name: p.Name, Role: audit.ParseRole(p.Role)}
	}
	return out
}

func convertAll[T ~string, S ~string](values []S) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

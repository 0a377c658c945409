package audit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/risk"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validInputs() audit.Inputs {
	return audit.Inputs{
		CompanyName:            "Acme Corp",
		Sector:                 audit.SectorTechSoftware,
		StartDate:              date(2024, time.January, 1),
		EndDate:                date(2024, time.March, 31),
		Personnel:              []audit.Personnel{{Name: "Jane Doe", Role: audit.RoleLeadAuditor}},
		ComplianceRequirements: []audit.ComplianceRequirement{audit.ComplianceSOX},
		AuditFocusAreas:        []audit.FocusArea{audit.FocusITSecurity},
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *audit.ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

// ─── Validate ─────────────────────────────────────────────────────────────────

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validInputs().Validate())
}

func TestValidate_SameDayPeriod(t *testing.T) {
	in := validInputs()
	in.EndDate = in.StartDate
	assert.NoError(t, in.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*audit.Inputs)
		field  string
	}{
		{"blank company", func(in *audit.Inputs) { in.CompanyName = "   " }, "company_name"},
		{"unknown sector", func(in *audit.Inputs) { in.Sector = "Space Mining" }, "sector"},
		{"empty sector", func(in *audit.Inputs) { in.Sector = "" }, "sector"},
		{"no personnel", func(in *audit.Inputs) { in.Personnel = nil }, "personnel"},
		{"only unnamed personnel", func(in *audit.Inputs) {
			in.Personnel = []audit.Personnel{{Name: " ", Role: audit.DefaultRole}}
		}, "personnel"},
		{"unknown role", func(in *audit.Inputs) { in.Personnel[0].Role = "Wizard" }, "personnel[0].role"},
		{"missing start", func(in *audit.Inputs) { in.StartDate = time.Time{} }, "audit_period"},
		{"reversed period", func(in *audit.Inputs) {
			in.StartDate, in.EndDate = in.EndDate, in.StartDate
		}, "audit_period"},
		{"unknown compliance", func(in *audit.Inputs) {
			in.ComplianceRequirements = append(in.ComplianceRequirements, "FOO")
		}, "compliance_requirements"},
		{"unknown focus", func(in *audit.Inputs) {
			in.AuditFocusAreas = []audit.FocusArea{"Vibes"}
		}, "audit_focus_areas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)
			assert.Equal(t, []string{tt.field}, fieldNames(t, in.Validate()))
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := audit.Inputs{}.Validate()
	assert.Equal(t, []string{"company_name", "sector", "audit_period", "personnel"}, fieldNames(t, err))
	assert.Contains(t, err.Error(), "company_name: is required")
}

// ─── Personnel rows ───────────────────────────────────────────────────────────

func TestPersonnelRowCommands(t *testing.T) {
	var in audit.Inputs

	in.AddPersonnelRow()
	in.AddPersonnelRow()
	require.Len(t, in.Personnel, 2)
	assert.Equal(t, audit.Personnel{Role: audit.RoleSeniorAuditor}, in.Personnel[0])

	require.NoError(t, in.UpdatePersonnelRow(0, audit.Personnel{Name: "Jane", Role: audit.RoleTaxAuditor}))
	require.NoError(t, in.UpdatePersonnelRow(1, audit.Personnel{Name: "Raj", Role: "unknown"}))
	assert.Equal(t, audit.RoleSeniorAuditor, in.Personnel[1].Role)

	require.NoError(t, in.RemovePersonnelRow(0))
	assert.Equal(t, []audit.Personnel{{Name: "Raj", Role: audit.RoleSeniorAuditor}}, in.Personnel)
}

func TestPersonnelRowCommands_OutOfRange(t *testing.T) {
	in := validInputs()

	assert.ErrorIs(t, in.RemovePersonnelRow(1), audit.ErrRowOutOfRange)
	assert.ErrorIs(t, in.RemovePersonnelRow(-1), audit.ErrRowOutOfRange)
	assert.ErrorIs(t, in.UpdatePersonnelRow(5, audit.Personnel{}), audit.ErrRowOutOfRange)
	assert.Len(t, in.Personnel, 1)
}

func TestRemovePersonnelRow_DoesNotAliasClone(t *testing.T) {
	in := validInputs()
	in.AddPersonnelRow()
	snapshot := in.Clone()

	require.NoError(t, in.RemovePersonnelRow(0))

	assert.Equal(t, "Jane Doe", snapshot.Personnel[0].Name)
	assert.Len(t, snapshot.Personnel, 2)
}

// ─── Normalized / display ─────────────────────────────────────────────────────

func TestNormalized(t *testing.T) {
	in := validInputs()
	in.CompanyName = "  Acme Corp \n"
	in.StartDate = time.Date(2024, time.January, 1, 15, 4, 5, 0, time.UTC)
	in.Personnel = append(in.Personnel, audit.Personnel{Name: " Raj ", Role: ""})
	in.ComplianceRequirements = []audit.ComplianceRequirement{audit.ComplianceSOX, audit.ComplianceGDPR, audit.ComplianceSOX}

	got := in.Normalized()

	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, date(2024, time.January, 1), got.StartDate)
	assert.Equal(t, audit.Personnel{Name: "Raj", Role: audit.DefaultRole}, got.Personnel[1])
	assert.Equal(t, "SOX, GDPR", got.ComplianceList())
	assert.Equal(t, " Raj ", in.Personnel[1].Name, "source must not change")
}

func TestNormalized_ControlCharacters(t *testing.T) {
	in := validInputs()
	in.CompanyName = "Acme\tCorp\x07"
	in.Personnel[0].Name = "Jane\nDoe"
	in.Description = "Makes\tanvils.\r\nShips\x00 worldwide."
	in.SpecialConsiderations = "\tNew ERP\x1b"

	got := in.Normalized()

	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, "Jane Doe", got.Personnel[0].Name)
	assert.Equal(t, "Makes anvils.\nShips worldwide.", got.Description)
	assert.Equal(t, "New ERP", got.SpecialConsiderations)
}

func TestNormalized_ControlOnlyCompanyIsRejected(t *testing.T) {
	in := validInputs()
	in.CompanyName = "\x07\t"

	err := in.Normalized().Validate()

	var verr *audit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "company_name", verr.Fields[0].Field)
}

func TestAuditPeriod(t *testing.T) {
	assert.Equal(t, "January 01, 2024 to March 31, 2024", validInputs().AuditPeriod())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, audit.RoleITAuditor, audit.ParseRole("IT Auditor"))
	assert.Equal(t, audit.RoleSeniorAuditor, audit.ParseRole(""))
	assert.Equal(t, audit.RoleSeniorAuditor, audit.ParseRole("Chief Vibes Officer"))
}

// ─── Record ───────────────────────────────────────────────────────────────────

func TestNewRecord_SnapshotsInputs(t *testing.T) {
	in := validInputs()
	risks := risk.DefaultCatalog().FallbackBuckets()
	at := time.Date(2024, time.May, 7, 10, 0, 0, 0, time.UTC)

	rec := audit.NewRecord(at, in, risks, "", "1. Executive Summary\nText")

	in.Personnel[0].Name = "Mallory"
	risks[risk.CategoryIndustry][0] = "changed"

	assert.Equal(t, "Jane Doe", rec.Inputs.Personnel[0].Name)
	assert.Equal(t, "Market volatility in the sector", rec.Risks[risk.CategoryIndustry][0])
	assert.False(t, rec.HasRiskAnalysis())
	assert.NotEqual(t, rec.ID, audit.NewRecord(at, in, risks, "", "").ID)
}

func TestRecordFileName(t *testing.T) {
	rec := audit.NewRecord(time.Date(2024, time.May, 7, 23, 59, 0, 0, time.UTC), validInputs(), nil, "", "")
	assert.Equal(t, "audit_plan_Acme Corp_20240507.pdf", rec.FileName(".pdf"))

	rec.Inputs.CompanyName = `A/B "Holdings"`
	assert.Equal(t, "audit_plan_A_B _Holdings__20240507.txt", rec.FileName(".txt"))
}

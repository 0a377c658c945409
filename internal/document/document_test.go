package document_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/document"
)

const samplePlan = "1. Executive Summary\r\nThis plan covers FY2024.\r\n\r\n" +
	"2. Audit Objectives\nAssess controls.\n   \nConfirm balances.\n\n\n\n" +
	"Scope Notes\n  Line one.  \n\t\nLine two.\n\n" +
	"3. Risk Assessment\n\n" +
	"A closing remark without a heading.\n"

// ─── ParseSections ────────────────────────────────────────────────────────────

func TestParseSections(t *testing.T) {
	got := document.ParseSections(samplePlan)

	want := []document.Section{
		{Title: "Executive Summary", Paragraphs: []string{"This plan covers FY2024."}},
		{Title: "Audit Objectives", Paragraphs: []string{"Assess controls."}},
		{Title: "", Paragraphs: []string{"Confirm balances."}},
		{Title: "Scope Notes", Paragraphs: []string{"Line one."}},
		{Title: "", Paragraphs: []string{"Line two."}},
		{Title: "Risk Assessment", Paragraphs: []string{}},
		{Title: "", Paragraphs: []string{"A closing remark without a heading."}},
	}
	assert.Equal(t, want, got)
}

func TestParseSections_Edges(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []document.Section
	}{
		{"empty", "", nil},
		{"whitespace only", " \n\t\n\r\n", nil},
		{"unnumbered title passes through", "Overview:\nBody", []document.Section{
			{Title: "Overview:", Paragraphs: []string{"Body"}},
		}},
		{"ordinal without space is kept", "1.Intro\nBody", []document.Section{
			{Title: "1.Intro", Paragraphs: []string{"Body"}},
		}},
		{"multi digit ordinal", "12. Appendix\nBody", []document.Section{
			{Title: "Appendix", Paragraphs: []string{"Body"}},
		}},
		{"duplicate titles kept", "1. A\nx\n\n1. A\nx", []document.Section{
			{Title: "A", Paragraphs: []string{"x"}},
			{Title: "A", Paragraphs: []string{"x"}},
		}},
		{"tabs become spaces", "1.\tSchedule\nStep\tOwner\tDate\n\tKickoff\t", []document.Section{
			{Title: "Schedule", Paragraphs: []string{"Step Owner Date", "Kickoff"}},
		}},
		{"other control characters dropped", "1. Bell\x07\nRing\x00 once\x1b", []document.Section{
			{Title: "Bell", Paragraphs: []string{"Ring once"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.ParseSections(tt.in))
		})
	}
}

func TestFormatSections_RoundTrip(t *testing.T) {
	inputs := []string{
		samplePlan,
		"1. Only heading",
		"Just a sentence.",
		"1. 2. Nested ordinal\nBody",
		"Intro\nfirst\nsecond\n\n4. Next\nthird",
	}
	for _, n := range inputs {
		parsed := document.ParseSections(n)
		assert.Equal(t, parsed, document.ParseSections(document.FormatSections(parsed)), "narrative %q", n)
	}
}

func TestHeuristicParser_ImplementsSectionParser(t *testing.T) {
	var p document.SectionParser = document.HeuristicParser{}
	assert.Len(t, p.Parse("1. A\nb"), 1)
}

// ─── Builder ──────────────────────────────────────────────────────────────────

func acmeRecord() audit.Record {
	in := audit.Inputs{
		CompanyName:            "Acme Corp",
		Sector:                 audit.SectorTechSoftware,
		StartDate:              time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		Personnel:              []audit.Personnel{{Name: "Jane Doe", Role: audit.RoleLeadAuditor}},
		ComplianceRequirements: []audit.ComplianceRequirement{audit.ComplianceSOX},
		AuditFocusAreas:        []audit.FocusArea{audit.FocusITSecurity},
	}
	at := time.Date(2024, time.May, 7, 9, 30, 0, 0, time.UTC)
	return audit.NewRecord(at, in, nil, "", "1. Executive Summary\nScope.\n\n2. Audit Objectives\nObjectives.")
}

func findKeyValue(t *testing.T, blocks []document.Block, label string) string {
	t.Helper()
	for _, b := range blocks {
		if kv, ok := b.(document.KeyValueTable); ok {
			for _, row := range kv.Rows {
				if row.Label == label {
					return row.Value
				}
			}
		}
	}
	t.Fatalf("row %q not found", label)
	return ""
}

func kinds(blocks []document.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind()
	}
	return out
}

func TestBuild_AcmeScenario(t *testing.T) {
	blocks := document.NewBuilder().Build(acmeRecord())

	assert.Equal(t, []string{
		"title_page",
		"table_of_contents",
		"key_value_table",
		"personnel_table",
		"page_break",
		"narrative_section",
		"narrative_section",
	}, kinds(blocks))

	assert.Equal(t, document.TitlePage{
		Title:     "Financial Audit Plan",
		Subtitle:  "for Acme Corp",
		Generated: "Generated on: May 07, 2024",
	}, blocks[0])

	toc := blocks[1].(document.TableOfContents)
	assert.Equal(t, document.DefaultOutline, toc.Items)

	assert.Equal(t, "None specified", findKeyValue(t, blocks, "Special Considerations:"))
	assert.Equal(t, "SOX", findKeyValue(t, blocks, "Compliance Requirements:"))
	assert.Equal(t, "January 01, 2024 to March 31, 2024", findKeyValue(t, blocks, "Audit Period:"))

	team := blocks[3].(document.PersonnelTable)
	assert.Equal(t, [][]string{{"Name", "Role"}, {"Jane Doe", "Lead Auditor"}}, team.Rows)

	first := blocks[5].(document.NarrativeSection)
	assert.Equal(t, "Executive Summary", first.Title)
}

func TestBuild_Placeholders(t *testing.T) {
	rec := acmeRecord()
	rec.Inputs.ComplianceRequirements = nil
	rec.Inputs.AuditFocusAreas = []audit.FocusArea{}
	rec.Inputs.SpecialConsiderations = "  "

	blocks := document.NewBuilder().Build(rec)

	for _, label := range []string{"Compliance Requirements:", "Audit Focus Areas:", "Special Considerations:"} {
		assert.Equal(t, document.NoneSpecified, findKeyValue(t, blocks, label))
	}
}

func TestBuild_PersonnelRowsPreserveOrder(t *testing.T) {
	for k := 1; k <= 6; k++ {
		rec := acmeRecord()
		rec.Inputs.Personnel = nil
		for i := range k {
			rec.Inputs.Personnel = append(rec.Inputs.Personnel, audit.Personnel{
				Name: string(rune('A' + i)),
				Role: audit.Roles[i%len(audit.Roles)],
			})
		}

		var team document.PersonnelTable
		for _, b := range document.NewBuilder().Build(rec) {
			if pt, ok := b.(document.PersonnelTable); ok {
				team = pt
			}
		}

		require.Len(t, team.Rows, k+1)
		assert.Equal(t, []string{"Name", "Role"}, team.Header())
		for i := range k {
			assert.Equal(t, string(rune('A'+i)), team.Rows[i+1][0])
		}
	}
}

func TestBuild_DescriptionSection(t *testing.T) {
	rec := acmeRecord()
	rec.Inputs.Description = "Makes anvils.\n\n  Ships worldwide. "

	blocks := document.NewBuilder().Build(rec)

	desc, ok := blocks[3].(document.NarrativeSection)
	require.True(t, ok, "expected description after company information")
	assert.Equal(t, "Company Description", desc.Title)
	assert.Equal(t, []string{"Makes anvils.", "Ships worldwide."}, desc.Paragraphs)
}

func TestBuild_ControlCharactersStayOutOfBlocks(t *testing.T) {
	rec := acmeRecord()
	rec.Inputs.Description = "Makes\tanvils.\x07"
	rec.Inputs.SpecialConsiderations = "New\tERP\x1b rollout"
	rec.PlanNarrative = "1. Timeline\nStep\tOwner\tDate"

	blocks := document.NewBuilder().Build(rec)

	desc, ok := blocks[3].(document.NarrativeSection)
	require.True(t, ok)
	assert.Equal(t, []string{"Makes anvils."}, desc.Paragraphs)
	assert.Equal(t, "New ERP rollout", findKeyValue(t, blocks, "Special Considerations:"))

	last, ok := blocks[len(blocks)-1].(document.NarrativeSection)
	require.True(t, ok)
	assert.Equal(t, "Timeline", last.Title)
	assert.Equal(t, []string{"Step Owner Date"}, last.Paragraphs)
}

func TestBuild_NoSectionsNoPageBreak(t *testing.T) {
	rec := acmeRecord()
	rec.PlanNarrative = "  \n\n "

	blocks := document.NewBuilder().Build(rec)

	assert.NotContains(t, kinds(blocks), "page_break")
	assert.NotContains(t, kinds(blocks), "narrative_section")
}

func TestBuild_TOCFromSections(t *testing.T) {
	blocks := document.NewBuilder(document.TOCFromSections()).Build(acmeRecord())

	toc := blocks[1].(document.TableOfContents)
	assert.Equal(t, []string{"1. Executive Summary", "2. Audit Objectives"}, toc.Items)
}

func TestBuild_WithExecutiveSummary(t *testing.T) {
	blocks := document.NewBuilder(document.WithExecutiveSummary()).Build(acmeRecord())

	summary, ok := blocks[2].(document.NarrativeSection)
	require.True(t, ok)
	assert.Equal(t, "Executive Summary", summary.Title)
	assert.Contains(t, summary.Paragraphs[0], "financial audit of Acme Corp")
	assert.Contains(t, summary.Paragraphs[0], "team of 1 auditors")
	assert.Contains(t, summary.Paragraphs[0], "compliance with SOX")
}

type upperParser struct{}

func (upperParser) Parse(string) []document.Section {
	return []document.Section{{Title: "Custom", Paragraphs: []string{"p"}}}
}

func TestBuild_WithParser(t *testing.T) {
	blocks := document.NewBuilder(document.WithParser(upperParser{})).Build(acmeRecord())

	last := blocks[len(blocks)-1].(document.NarrativeSection)
	assert.Equal(t, "Custom", last.Title)
}

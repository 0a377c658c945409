package document

import (
	"fmt"
	"strings"

	"github.com/nyashahama/audit-planner/internal/audit"
)

const (
	// NoneSpecified stands in for empty lists and blank text in the company
	// information table.
	NoneSpecified = "None specified"

	documentTitle = "Financial Audit Plan"
	tocTitle      = "Table of Contents"
)

// DefaultOutline is the fixed table of contents. It describes the sections
// the plan prompt asks for and is not derived from the narrative.
var DefaultOutline = []string{
	"1. Executive Summary",
	"2. Company Information",
	"3. Audit Objectives",
	"4. Scope of Audit",
	"5. Risk Assessment",
	"6. Audit Procedures",
	"7. Substantive Audit Procedures",
	"8. Recommendations",
	"9. Timeline and Milestones",
	"10. Resource Allocation",
	"11. Special Considerations Analysis",
}

// Option configures a Builder.
type Option func(*Builder)

// TOCFromSections builds the table of contents from the parsed section
// titles instead of DefaultOutline.
func TOCFromSections() Option {
	return func(b *Builder) { b.tocFromSections = true }
}

// WithExecutiveSummary inserts a generated summary paragraph directly after
// the table of contents.
func WithExecutiveSummary() Option {
	return func(b *Builder) { b.executiveSummary = true }
}

// WithParser replaces the HeuristicParser.
func WithParser(p SectionParser) Option {
	return func(b *Builder) {
		if p != nil {
			b.parser = p
		}
	}
}

// Builder assembles the block list for a record. A Builder holds no
// per-record state and is safe for concurrent use.
type Builder struct {
	parser           SectionParser
	tocFromSections  bool
	executiveSummary bool
}

// NewBuilder returns a Builder using HeuristicParser and the static outline.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{parser: HeuristicParser{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sections parses the record's plan narrative.
func (b *Builder) Sections(rec audit.Record) []Section {
	return b.parser.Parse(rec.PlanNarrative)
}

// Build returns the blocks for rec in their fixed order: title page, table
// of contents, company information, company description (when present),
// audit team, then a page break and one section per parsed narrative block.
func (b *Builder) Build(rec audit.Record) []Block {
	in := rec.Inputs
	sections := b.Sections(rec)

	blocks := []Block{
		TitlePage{
			Title:     documentTitle,
			Subtitle:  "for " + in.CompanyName,
			Generated: "Generated on: " + audit.FormatDate(rec.Timestamp),
		},
		b.tableOfContents(sections),
	}

	if b.executiveSummary {
		blocks = append(blocks, NarrativeSection{Section{
			Title:      "Executive Summary",
			Paragraphs: []string{executiveSummary(in)},
		}})
	}

	blocks = append(blocks, companyInformation(in))

	if desc := descriptionParagraphs(in.Description); len(desc) > 0 {
		blocks = append(blocks, NarrativeSection{Section{
			Title:      "Company Description",
			Paragraphs: desc,
		}})
	}

	blocks = append(blocks, personnelTable(in.Personnel))

	for i, s := range sections {
		if i == 0 {
			blocks = append(blocks, PageBreak{})
		}
		blocks = append(blocks, NarrativeSection{s})
	}
	return blocks
}

func (b *Builder) tableOfContents(sections []Section) TableOfContents {
	items := append([]string(nil), DefaultOutline...)
	if b.tocFromSections {
		titles := Titles(sections)
		items = make([]string, len(titles))
		for i, t := range titles {
			items[i] = fmt.Sprintf("%d. %s", i+1, t)
		}
	}
	return TableOfContents{Title: tocTitle, Items: items}
}

func companyInformation(in audit.Inputs) KeyValueTable {
	return KeyValueTable{
		Title: "Company Information",
		Rows: []KeyValue{
			{Label: "Company Name:", Value: in.CompanyName},
			{Label: "Sector:", Value: string(in.Sector)},
			{Label: "Audit Period:", Value: in.AuditPeriod()},
			{Label: "Compliance Requirements:", Value: orNone(in.ComplianceList())},
			{Label: "Audit Focus Areas:", Value: orNone(in.FocusList())},
			{Label: "Special Considerations:", Value: orNone(singleLine(in.SpecialConsiderations))},
		},
	}
}

func personnelTable(personnel []audit.Personnel) PersonnelTable {
	rows := make([][]string, 0, len(personnel)+1)
	rows = append(rows, []string{"Name", "Role"})
	for _, p := range personnel {
		rows = append(rows, []string{p.Name, string(p.Role)})
	}
	return PersonnelTable{Title: "Audit Team", Rows: rows}
}

func descriptionParagraphs(desc string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(desc, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(printable(line)); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func executiveSummary(in audit.Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"This audit plan outlines the comprehensive approach for conducting a financial audit of %s, "+
			"a company operating in the %s sector. The audit will be conducted from %s with a team of %d auditors.",
		in.CompanyName, in.Sector, in.AuditPeriod(), len(in.Personnel))
	if list := in.ComplianceList(); list != "" {
		fmt.Fprintf(&b, " The audit will focus on compliance with %s.", list)
	}
	if list := in.FocusList(); list != "" {
		fmt.Fprintf(&b, " It will address specific areas including %s.", list)
	}
	if strings.TrimSpace(in.SpecialConsiderations) != "" {
		b.WriteString(" Special considerations have been identified and are addressed in detail in the plan.")
	}
	return b.String()
}

// singleLine collapses runs of whitespace, line breaks included, so free text
// fits a table cell.
func singleLine(s string) string {
	return strings.Join(strings.Fields(printable(s)), " ")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoneSpecified
	}
	return s
}

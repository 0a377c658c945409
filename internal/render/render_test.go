package render_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/audit-planner/internal/document"
	"github.com/nyashahama/audit-planner/internal/render"
)

var stamp = time.Date(2024, time.May, 7, 9, 30, 0, 0, time.UTC)

func sampleBlocks() []document.Block {
	return []document.Block{
		document.TitlePage{Title: "Financial Audit Plan", Subtitle: "for Société Générale €", Generated: "Generated on: May 07, 2024"},
		document.TableOfContents{Title: "Table of Contents", Items: []string{"1. Executive Summary", "2. Company Information"}},
		document.KeyValueTable{Title: "Company Information", Rows: []document.KeyValue{
			{Label: "Company Name:", Value: "Acme Corp"},
			{Label: "Special Considerations:", Value: "None specified"},
		}},
		document.PersonnelTable{Title: "Audit Team", Rows: [][]string{
			{"Name", "Role"},
			{"Jane Doe", "Lead Auditor"},
			{"Zoë 李", "IT Auditor"},
		}},
		document.PageBreak{},
		document.NarrativeSection{Section: document.Section{
			Title:      "Executive Summary",
			Paragraphs: []string{strings.Repeat("The audit covers revenue, payables and controls. ", 40)},
		}},
		document.NarrativeSection{Section: document.Section{Paragraphs: []string{"Untitled paragraph."}}},
	}
}

// ─── PDF ──────────────────────────────────────────────────────────────────────

func TestRenderPDF_ProducesPDF(t *testing.T) {
	out, err := render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp), render.WithTitle("Audit plan"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/Title")
}

func TestRenderPDF_Deterministic(t *testing.T) {
	a, err := render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp))
	require.NoError(t, err)
	b, err := render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b), "two renders of the same blocks differ")
}

func TestRenderPDF_EmptyBlocks(t *testing.T) {
	out, err := render.Render(nil, render.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRender_ConcurrentCallsIndependent(t *testing.T) {
	want, err := render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp))
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.True(t, bytes.Equal(want, got), "render %d differs", i)
	}
}

// ─── Text ─────────────────────────────────────────────────────────────────────

func TestRenderText(t *testing.T) {
	blocks := []document.Block{
		document.TitlePage{Title: "Financial Audit Plan", Subtitle: "for Acme Corp", Generated: "Generated on: May 07, 2024"},
		document.KeyValueTable{Title: "Company Information", Rows: []document.KeyValue{{Label: "Sector:", Value: "Other"}}},
		document.PersonnelTable{Title: "Audit Team", Rows: [][]string{{"Name", "Role"}, {"Jane Doe", "Lead Auditor"}}},
		document.PageBreak{},
		document.NarrativeSection{Section: document.Section{Title: "Scope", Paragraphs: []string{"One.", "Two."}}},
	}

	out, err := render.Render(blocks, render.FormatText)
	require.NoError(t, err)

	want := "Financial Audit Plan\nfor Acme Corp\nGenerated on: May 07, 2024" +
		"\n\nCompany Information\nSector:\tOther" +
		"\n\nAudit Team\nName\tRole\nJane Doe\tLead Auditor" +
		"\n\nScope\nOne.\nTwo.\n"
	assert.Equal(t, want, string(out))
}

// ─── Errors ───────────────────────────────────────────────────────────────────

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		blocks []document.Block
		format render.Format
	}{
		{"unknown format", sampleBlocks(), render.Format("docx")},
		{"ragged table", []document.Block{document.PersonnelTable{Rows: [][]string{{"Name", "Role"}, {"Only name"}}}}, render.FormatPDF},
		{"empty header", []document.Block{document.PersonnelTable{Rows: [][]string{{}}}}, render.FormatText},
		{"no rows", []document.Block{document.PersonnelTable{Title: "Audit Team"}}, render.FormatPDF},
		{"empty key value table", []document.Block{document.KeyValueTable{Title: "Company Information"}}, render.FormatPDF},
		{"control character", []document.Block{document.NarrativeSection{Section: document.Section{
			Title: "Bell", Paragraphs: []string{"ding\x07"},
		}}}, render.FormatPDF},
		{"control character in cell", []document.Block{document.PersonnelTable{Rows: [][]string{{"Name", "Role"}, {"Jane\tDoe", "IT Auditor"}}}}, render.FormatText},
		{"nil block", []document.Block{nil}, render.FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render.Render(tt.blocks, tt.format)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, render.ErrRender))

			var rerr *render.Error
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.format, rerr.Format)
		})
	}
}

func TestRender_ErrorDoesNotAffectNextCall(t *testing.T) {
	bad := []document.Block{document.NarrativeSection{Section: document.Section{Paragraphs: []string{"\x00"}}}}
	_, err := render.Render(bad, render.FormatPDF)
	require.Error(t, err)

	out, err := render.Render(sampleBlocks(), render.FormatPDF, render.WithTimestamp(stamp))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestError_Message(t *testing.T) {
	_, err := render.Render([]document.Block{document.PersonnelTable{Rows: [][]string{{"Name", "Role"}, {"x"}}}}, render.FormatText)
	assert.EqualError(t, err, "render text: block 0 (personnel_table): row 1 has 1 cells, header has 2")
}

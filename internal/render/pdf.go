package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/nyashahama/audit-planner/internal/document"
)

// Page geometry, in points.
const (
	pageMargin = 72

	titlePageTopSpace = 100
	titlePageGap      = 50
	tocGap            = 20

	tableColumnWidth = 216
	tableSpaceAfter  = 12
	cellPaddingX     = 6
	cellPaddingY     = 8
	cellFontSize     = 11
	cellLeading      = 13
	gridLineWidth    = 0.5

	fontFamily = "Helvetica"
	creator    = "audit-planner"
)

type rgb struct{ r, g, b int }

var (
	colorDarkSlate = rgb{0x2C, 0x3E, 0x50}
	colorSlate     = rgb{0x34, 0x49, 0x5E}
	colorBlack     = rgb{0x00, 0x00, 0x00}
	colorWhite     = rgb{0xFF, 0xFF, 0xFF}
	colorGrid      = rgb{0xDD, 0xDD, 0xDD}
)

// paragraphStyle is one of the four named text styles.
type paragraphStyle struct {
	fontStyle   string // "" or "B"
	size        float64
	leading     float64
	color       rgb
	align       string
	spaceBefore float64
	spaceAfter  float64
}

var (
	styleTitle    = paragraphStyle{fontStyle: "B", size: 24, leading: 29, color: colorDarkSlate, align: "C", spaceAfter: 30}
	styleSubtitle = paragraphStyle{size: 16, leading: 19, color: colorSlate, align: "C", spaceAfter: 20}
	styleHeading  = paragraphStyle{fontStyle: "B", size: 14, leading: 17, color: colorDarkSlate, align: "L", spaceBefore: 20, spaceAfter: 12}
	styleBody     = paragraphStyle{size: 11, leading: 14, color: colorBlack, align: "J", spaceAfter: 12}
)

// renderPDF lays blocks out on A4 pages. The title page and the table of
// contents each end their page; a PageBreak starts a new one.
func renderPDF(blocks []document.Block, o options) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &Error{Format: FormatPDF, Block: -1, Err: fmt.Errorf("layout panic: %v", r)}
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(o.timestamp)
	pdf.SetModificationDate(o.timestamp)
	pdf.SetCreator(creator, false)
	if o.title != "" {
		pdf.SetTitle(o.title, true)
	}
	if o.author != "" {
		pdf.SetAuthor(o.author, true)
	}

	w := &pdfWriter{pdf: pdf, needPage: true}
	for i, b := range blocks {
		w.block(b)
		if pdf.Err() {
			return nil, &Error{Format: FormatPDF, Block: i, Kind: b.Kind(), Err: pdf.Error()}
		}
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &Error{Format: FormatPDF, Block: -1, Err: err}
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *fpdf.Fpdf

	// needPage defers the page break until there is something to put on
	// the next page, so trailing or repeated breaks never add blank pages.
	needPage bool
}

func (w *pdfWriter) block(b document.Block) {
	if _, ok := b.(document.PageBreak); ok {
		w.needPage = true
		return
	}
	if w.needPage {
		w.pdf.AddPage()
		w.needPage = false
	}

	switch v := b.(type) {
	case document.TitlePage:
		w.pdf.Ln(titlePageTopSpace)
		w.paragraph(v.Title, styleTitle)
		w.paragraph(v.Subtitle, styleSubtitle)
		w.pdf.Ln(titlePageGap)
		w.paragraph(v.Generated, styleBody)
		w.needPage = true

	case document.TableOfContents:
		w.paragraph(v.Title, styleTitle)
		w.pdf.Ln(tocGap)
		for _, item := range v.Items {
			w.paragraph(item, styleBody)
		}
		w.needPage = true

	case document.KeyValueTable:
		w.heading(v.Title)
		rows := make([][]string, len(v.Rows))
		for i, row := range v.Rows {
			rows[i] = []string{row.Label, row.Value}
		}
		w.table(rows, false)

	case document.PersonnelTable:
		w.heading(v.Title)
		w.table(v.Rows, true)

	case document.NarrativeSection:
		if v.Title != "" {
			w.heading(v.Title)
		}
		for _, p := range v.Paragraphs {
			w.paragraph(p, styleBody)
		}
	}
}

// heading keeps a heading on the same page as the first lines that follow.
func (w *pdfWriter) heading(text string) {
	w.ensureSpace(styleHeading.spaceBefore + styleHeading.leading + styleHeading.spaceAfter + 2*styleBody.leading)
	w.paragraph(text, styleHeading)
}

func (w *pdfWriter) paragraph(text string, s paragraphStyle) {
	if text == "" {
		return
	}
	if s.spaceBefore > 0 && !w.atPageTop() {
		w.pdf.Ln(s.spaceBefore)
	}
	w.pdf.SetFont(fontFamily, s.fontStyle, s.size)
	w.pdf.SetTextColor(s.color.r, s.color.g, s.color.b)
	w.pdf.MultiCell(0, s.leading, encode(text), "", s.align, false)
	w.pdf.Ln(s.spaceAfter)
}

// table draws a grid of fixed-width columns. With header set, the first row
// is bold white text on the dark header fill. Without it, the first column
// is bold and acts as the label column.
func (w *pdfWriter) table(rows [][]string, header bool) {
	pdf := w.pdf
	cols := len(rows[0])
	colWidth := float64(tableColumnWidth)
	if cols != 2 {
		colWidth = 2 * tableColumnWidth / float64(cols)
	}
	left, _, _, _ := pdf.GetMargins()

	pdf.SetLineWidth(gridLineWidth)
	pdf.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	pdf.SetFillColor(colorDarkSlate.r, colorDarkSlate.g, colorDarkSlate.b)

	for i, row := range rows {
		isHeader := header && i == 0
		fontStyle := func(c int) string {
			if isHeader || (!header && c == 0) {
				return "B"
			}
			return ""
		}

		cells := make([][]string, cols)
		lines := 1
		for c, text := range row {
			pdf.SetFont(fontFamily, fontStyle(c), cellFontSize)
			cells[c] = w.wrap(encode(text), colWidth-2*cellPaddingX)
			lines = max(lines, len(cells[c]))
		}
		height := float64(lines)*cellLeading + 2*cellPaddingY

		w.ensureSpace(height)
		y := pdf.GetY()

		for c := range row {
			x := left + float64(c)*colWidth
			if isHeader {
				pdf.Rect(x, y, colWidth, height, "FD")
				pdf.SetTextColor(colorWhite.r, colorWhite.g, colorWhite.b)
			} else {
				pdf.Rect(x, y, colWidth, height, "D")
				pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
			}
			pdf.SetFont(fontFamily, fontStyle(c), cellFontSize)
			for l, line := range cells[c] {
				pdf.SetXY(x+cellPaddingX, y+cellPaddingY+float64(l)*cellLeading)
				pdf.CellFormat(colWidth-2*cellPaddingX, cellLeading, line, "", 0, "L", false, 0, "")
			}
		}
		pdf.SetXY(left, y+height)
	}
	pdf.Ln(tableSpaceAfter)
}

// wrap breaks already-encoded text into lines no wider than width in the
// current font. A single word wider than width gets a line of its own.
func (w *pdfWriter) wrap(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if w.pdf.GetStringWidth(line+" "+word) <= width {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}

func (w *pdfWriter) ensureSpace(height float64) {
	_, pageHeight := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	if w.pdf.GetY()+height > pageHeight-bottom && !w.atPageTop() {
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) atPageTop() bool {
	_, top, _, _ := w.pdf.GetMargins()
	return w.pdf.GetY() <= top+0.5
}

// encode converts UTF-8 to the Windows-1252 bytes the core fonts expect.
// Runes outside the code page become '?'.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

package render

import (
	"strings"

	"github.com/nyashahama/audit-planner/internal/document"
)

const textSeparator = "\n\n"

// renderText writes each block as plain lines and joins blocks with a blank
// line. Tables become tab-separated rows; page breaks produce nothing.
func renderText(blocks []document.Block) []byte {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var lines []string
		switch v := b.(type) {
		case document.TitlePage:
			lines = []string{v.Title, v.Subtitle, v.Generated}
		case document.TableOfContents:
			lines = append([]string{v.Title}, v.Items...)
		case document.KeyValueTable:
			lines = append(lines, v.Title)
			for _, row := range v.Rows {
				lines = append(lines, row.Label+"\t"+row.Value)
			}
		case document.PersonnelTable:
			lines = append(lines, v.Title)
			for _, row := range v.Rows {
				lines = append(lines, strings.Join(row, "\t"))
			}
		case document.NarrativeSection:
			if v.Title != "" {
				lines = append(lines, v.Title)
			}
			lines = append(lines, v.Paragraphs...)
		case document.PageBreak:
			continue
		}
		if len(lines) == 0 {
			continue
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	out := strings.Join(parts, textSeparator)
	if out != "" {
		out += "\n"
	}
	return []byte(out)
}

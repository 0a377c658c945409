// Package document turns an audit record into a format-independent list of
// blocks. Parsing the plan narrative into sections lives here too, behind the
// SectionParser interface, so a stricter parser can replace the heuristic one
// without touching the builder or the renderers.
package document

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section is one titled part of the plan narrative.
type Section struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// SectionParser splits narrative text into ordered sections.
type SectionParser interface {
	Parse(narrative string) []Section
}

// numberedHeading matches "3. Risk Assessment" and captures the text after
// the ordinal.
var numberedHeading = regexp.MustCompile(`^\d+\.\s+(.+)$`)

// HeuristicParser splits on blank lines and treats the first line of each
// block as its title. It never fails: text it cannot interpret passes through
// as paragraphs or verbatim titles.
type HeuristicParser struct{}

// Parse calls ParseSections.
func (HeuristicParser) Parse(narrative string) []Section {
	return ParseSections(narrative)
}

// ParseSections splits narrative into sections.
//
// Blocks are separated by one or more blank lines, where a line holding only
// spaces or tabs counts as blank. Tabs inside a line become spaces and other
// control characters are dropped. Within a block the first line is the title
// ("N. " prefixes are stripped) and each further non-blank line is a
// paragraph. A block of a single line is a title-only section when it looks
// like a numbered heading and an untitled one-paragraph section otherwise.
// Order is preserved and nothing is merged or deduplicated.
func ParseSections(narrative string) []Section {
	var sections []Section
	for _, lines := range splitBlocks(narrative) {
		title := lines[0]
		if len(lines) == 1 {
			if m := numberedHeading.FindStringSubmatch(title); m != nil {
				sections = append(sections, Section{Title: m[1], Paragraphs: []string{}})
			} else {
				sections = append(sections, Section{Paragraphs: []string{title}})
			}
			continue
		}

		sections = append(sections, Section{
			Title:      cleanTitle(title),
			Paragraphs: lines[1:],
		})
	}
	return sections
}

// splitBlocks normalises line endings and groups consecutive non-blank lines.
// Every returned line is printable, trimmed and non-empty.
func splitBlocks(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(printable(line))
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// printable maps tabs to spaces and drops every other control character.
// The renderers reject both.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func cleanTitle(title string) string {
	if m := numberedHeading.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return title
}

// FormatSections writes sections back to narrative text: every titled
// section is numbered, paragraphs go one per line and sections are separated
// by a blank line. ParseSections(FormatSections(s)) returns s for any s that
// ParseSections produced.
func FormatSections(sections []Section) string {
	var b strings.Builder
	n := 0
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		lines := make([]string, 0, len(s.Paragraphs)+1)
		if s.Title != "" {
			n++
			lines = append(lines, strconv.Itoa(n)+". "+s.Title)
		}
		lines = append(lines, s.Paragraphs...)
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

// Titles returns the title of every titled section, in order.
func Titles(sections []Section) []string {
	var titles []string
	for _, s := range sections {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	return titles
}

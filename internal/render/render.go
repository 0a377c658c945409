// Package render turns document blocks into bytes. Two formats are
// supported: a paginated PDF and plain text. Rendering is pure: each call
// builds its own output buffer, so renders may run concurrently.
package render

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/nyashahama/audit-planner/internal/document"
)

// Format selects the output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// ErrRender is matched by every *Error.
var ErrRender = errors.New("render failed")

// Error reports a render failure. Block is the index of the offending block,
// or -1 when the failure is not tied to one.
type Error struct {
	Format Format
	Block  int
	Kind   string
	Err    error
}

func (e *Error) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("render %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("render %s: block %d (%s): %v", e.Format, e.Block, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRender) true for any *Error.
func (e *Error) Is(target error) bool { return target == ErrRender }

// ─── OPTIONS ──────────────────────────────────────────────────────────────────

type options struct {
	timestamp time.Time
	title     string
	author    string
}

// Option adjusts document metadata.
type Option func(*options)

// WithTimestamp pins the PDF creation and modification dates. Pass the
// record timestamp so rendering the same record twice yields the same bytes.
func WithTimestamp(t time.Time) Option {
	return func(o *options) { o.timestamp = t }
}

// WithTitle sets the PDF document title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithAuthor sets the PDF document author.
func WithAuthor(author string) Option {
	return func(o *options) { o.author = author }
}

// ─── ENTRY POINT ──────────────────────────────────────────────────────────────

// Render encodes blocks in format. Blocks are checked before any output is
// produced, so a malformed block never yields a partial document.
func Render(blocks []document.Block, format Format, opts ...Option) ([]byte, error) {
	o := options{timestamp: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatPDF, FormatText:
	default:
		return nil, &Error{Format: format, Block: -1, Err: fmt.Errorf("unknown format %q", format)}
	}

	if err := validate(blocks, format); err != nil {
		return nil, err
	}

	if format == FormatText {
		return renderText(blocks), nil
	}
	return renderPDF(blocks, o)
}

// ─── VALIDATION ───────────────────────────────────────────────────────────────

func validate(blocks []document.Block, format Format) error {
	for i, b := range blocks {
		fail := func(err error) error {
			return &Error{Format: format, Block: i, Kind: kindOf(b), Err: err}
		}
		if b == nil {
			return fail(errors.New("nil block"))
		}

		for _, s := range texts(b) {
			if r, ok := firstControl(s); ok {
				return fail(fmt.Errorf("control character %U in %q", r, s))
			}
		}

		switch v := b.(type) {
		case document.PersonnelTable:
			if err := checkTable(v.Rows); err != nil {
				return fail(err)
			}
		case document.KeyValueTable:
			if len(v.Rows) == 0 {
				return fail(errors.New("table has no rows"))
			}
		}
	}
	return nil
}

func checkTable(rows [][]string) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return errors.New("table has no header")
	}
	width := len(rows[0])
	for i, row := range rows[1:] {
		if len(row) != width {
			return fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), width)
		}
	}
	return nil
}

func firstControl(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsControl(r) {
			return r, true
		}
	}
	return 0, false
}

// texts returns every string a block renders.
func texts(b document.Block) []string {
	switch v := b.(type) {
	case document.TitlePage:
		return []string{v.Title, v.Subtitle, v.Generated}
	case document.TableOfContents:
		return append([]string{v.Title}, v.Items...)
	case document.KeyValueTable:
		out := []string{v.Title}
		for _, row := range v.Rows {
			out = append(out, row.Label, row.Value)
		}
		return out
	case document.PersonnelTable:
		out := []string{v.Title}
		for _, row := range v.Rows {
			out = append(out, row...)
		}
		return out
	case document.NarrativeSection:
		return append([]string{v.Title}, v.Paragraphs...)
	}
	return nil
}

func kindOf(b document.Block) string {
	if b == nil {
		return "nil"
	}
	return b.Kind()
}

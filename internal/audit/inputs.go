package audit

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Personnel is one row of the audit team. Name may be empty while the form
// is being edited.
type Personnel struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Inputs is everything the operator enters before a generation.
type Inputs struct {
	CompanyName            string                  `json:"company_name"`
	Description            string                  `json:"description"`
	Sector                 Sector                  `json:"sector"`
	StartDate              time.Time               `json:"start_date"`
	EndDate                time.Time               `json:"end_date"`
	Personnel              []Personnel             `json:"personnel"`
	ComplianceRequirements []ComplianceRequirement `json:"compliance_requirements"`
	AuditFocusAreas        []FocusArea             `json:"audit_focus_areas"`
	SpecialConsiderations  string                  `json:"special_considerations"`
}

// ErrRowOutOfRange is returned by the personnel row commands for an index
// outside the current list.
var ErrRowOutOfRange = errors.New("audit: personnel row out of range")

// ─── VALIDATION ───────────────────────────────────────────────────────────────

// FieldError names one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation. Match it with
// errors.As.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "audit: invalid inputs: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the inputs before a generation. It returns nil or a
// *ValidationError naming every failed field.
func (in Inputs) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(in.CompanyName) == "" {
		verr.add("company_name", "is required")
	}

	if !in.Sector.Valid() {
		verr.add("sector", "unknown sector %q", in.Sector)
	}

	switch {
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		verr.add("audit_period", "start and end dates are required")
	case in.StartDate.After(in.EndDate):
		verr.add("audit_period", "start date %s is after end date %s",
			in.StartDate.Format(time.DateOnly), in.EndDate.Format(time.DateOnly))
	}

	if len(in.Personnel) == 0 {
		verr.add("personnel", "at least one team member is required")
	} else if !in.hasNamedPersonnel() {
		verr.add("personnel", "at least one team member needs a name")
	}
	for i, p := range in.Personnel {
		if p.Role != "" && !p.Role.Valid() {
			verr.add(fmt.Sprintf("personnel[%d].role", i), "unknown role %q", p.Role)
		}
	}

	for _, c := range in.ComplianceRequirements {
		if !c.Valid() {
			verr.add("compliance_requirements", "unknown requirement %q", c)
		}
	}
	for _, f := range in.AuditFocusAreas {
		if !f.Valid() {
			verr.add("audit_focus_areas", "unknown focus area %q", f)
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (in Inputs) hasNamedPersonnel() bool {
	for _, p := range in.Personnel {
		if strings.TrimSpace(p.Name) != "" {
			return true
		}
	}
	return false
}

// ─── PERSONNEL ROW COMMANDS ───────────────────────────────────────────────────

// AddPersonnelRow appends an empty row with the default role.
func (in *Inputs) AddPersonnelRow() {
	in.Personnel = append(in.Personnel, Personnel{Role: DefaultRole})
}

// UpdatePersonnelRow replaces row i. An empty or unknown role becomes
// DefaultRole.
func (in *Inputs) UpdatePersonnelRow(i int, p Personnel) error {
	if i < 0 || i >= len(in.Personnel) {
		return fmt.Errorf("%w: index %d, %d rows", ErrRowOutOfRange, i, len(in.Personnel))
	}
	p.Role = ParseRole(string(p.Role))
	in.Personnel[i] = p
	return nil
}

// RemovePersonnelRow deletes row i, keeping the order of the rest.
func (in *Inputs) RemovePersonnelRow(i int) error {
	if i < 0 || i >= len(in.Personnel) {
		return fmt.Errorf("%w: index %d, %d rows", ErrRowOutOfRange, i, len(in.Personnel))
	}
	in.Personnel = append(in.Personnel[:i:i], in.Personnel[i+1:]...)
	return nil
}

// ─── NORMALISATION ────────────────────────────────────────────────────────────

// Normalized returns a deep copy with text fields trimmed, unknown or empty
// roles set to DefaultRole and duplicate selections collapsed. Dates are
// truncated to the calendar day. Tabs become spaces and other control
// characters are dropped; only the description and special considerations
// keep their line breaks.
func (in Inputs) Normalized() Inputs {
	out := in.Clone()
	out.CompanyName = plainText(out.CompanyName, false)
	out.Description = plainText(out.Description, true)
	out.SpecialConsiderations = plainText(out.SpecialConsiderations, true)
	out.StartDate = day(out.StartDate)
	out.EndDate = day(out.EndDate)
	for i := range out.Personnel {
		out.Personnel[i].Name = plainText(out.Personnel[i].Name, false)
		out.Personnel[i].Role = ParseRole(string(out.Personnel[i].Role))
	}
	out.ComplianceRequirements = uniq(out.ComplianceRequirements)
	out.AuditFocusAreas = uniq(out.AuditFocusAreas)
	return out
}

// Clone returns a deep copy.
func (in Inputs) Clone() Inputs {
	out := in
	out.Personnel = cloneSlice(in.Personnel)
	out.ComplianceRequirements = cloneSlice(in.ComplianceRequirements)
	out.AuditFocusAreas = cloneSlice(in.AuditFocusAreas)
	return out
}

// ComplianceList joins the requirements for display; empty when none.
func (in Inputs) ComplianceList() string {
	return joinStrings(in.ComplianceRequirements, ", ")
}

// FocusList joins the focus areas for display; empty when none.
func (in Inputs) FocusList() string {
	return joinStrings(in.AuditFocusAreas, ", ")
}

// AuditPeriod formats the date range, e.g. "January 01, 2024 to March 31, 2024".
func (in Inputs) AuditPeriod() string {
	return FormatDate(in.StartDate) + " to " + FormatDate(in.EndDate)
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

// plainText trims s and removes control characters. Tabs become spaces, and
// so do line breaks unless multiline is set.
func plainText(s string, multiline bool) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			if multiline {
				return '\n'
			}
			return ' '
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s))
}

// DisplayDateLayout renders dates as "January 02, 2006".
const DisplayDateLayout = "January 02, 2006"

// FormatDate renders t with DisplayDateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Package session holds the operator's in-progress form inputs and the
// records generated from them. There is one Session per process.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/history"
)

// Generator turns validated inputs into a recorded audit plan.
type Generator interface {
	Generate(ctx context.Context, in audit.Inputs) (audit.Record, error)
}

// Patch carries a partial update of the draft. Nil fields are left alone.
type Patch struct {
	CompanyName            *string
	Description            *string
	Sector                 *audit.Sector
	StartDate              *time.Time
	EndDate                *time.Time
	Personnel              *[]audit.Personnel
	ComplianceRequirements *[]audit.ComplianceRequirement
	AuditFocusAreas        *[]audit.FocusArea
	SpecialConsiderations  *string
}

// Session guards the draft inputs. The history store has its own lock.
type Session struct {
	mu      sync.Mutex
	draft   audit.Inputs
	history *history.Store
}

// New returns a Session with a blank draft containing one empty personnel
// row, matching the initial form.
func New(hist *history.Store) *Session {
	s := &Session{history: hist}
	s.draft = blankDraft()
	return s
}

func blankDraft() audit.Inputs {
	in := audit.Inputs{}
	in.AddPersonnelRow()
	return in
}

// History returns the session's record store.
func (s *Session) History() *history.Store { return s.history }

// Snapshot returns a deep copy of the current draft.
func (s *Session) Snapshot() audit.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Update applies p to the draft and returns the result.
func (s *Session) Update(p Patch) audit.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CompanyName != nil {
		s.draft.CompanyName = *p.CompanyName
	}
	if p.Description != nil {
		s.draft.Description = *p.Description
	}
	if p.Sector != nil {
		s.draft.Sector = *p.Sector
	}
	if p.StartDate != nil {
		s.draft.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.draft.EndDate = *p.EndDate
	}
	if p.Personnel != nil {
		s.draft.Personnel = append([]audit.Personnel(nil), (*p.Personnel)...)
		for i := range s.draft.Personnel {
			s.draft.Personnel[i].Role = audit.ParseRole(string(s.draft.Personnel[i].Role))
		}
	}
	if p.ComplianceRequirements != nil {
		s.draft.ComplianceRequirements = append([]audit.ComplianceRequirement(nil), (*p.ComplianceRequirements)...)
	}
	if p.AuditFocusAreas != nil {
		s.draft.AuditFocusAreas = append([]audit.FocusArea(nil), (*p.AuditFocusAreas)...)
	}
	if p.SpecialConsiderations != nil {
		s.draft.SpecialConsiderations = *p.SpecialConsiderations
	}
	return s.draft.Clone()
}

// AddPersonnelRow appends a blank row with the default role.
func (s *Session) AddPersonnelRow() audit.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.AddPersonnelRow()
	return s.draft.Clone()
}

// UpdatePersonnelRow replaces row i. Returns audit.ErrRowOutOfRange for a
// bad index.
func (s *Session) UpdatePersonnelRow(i int, p audit.Personnel) (audit.Inputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.UpdatePersonnelRow(i, p); err != nil {
		return audit.Inputs{}, err
	}
	return s.draft.Clone(), nil
}

// RemovePersonnelRow deletes row i. Returns audit.ErrRowOutOfRange for a bad
// index.
func (s *Session) RemovePersonnelRow(i int) (audit.Inputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.RemovePersonnelRow(i); err != nil {
		return audit.Inputs{}, err
	}
	return s.draft.Clone(), nil
}

// Reset discards the draft. History is kept.
func (s *Session) Reset() audit.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = blankDraft()
	return s.draft.Clone()
}

// Generate runs g on a snapshot of the draft. The draft is not modified
// whatever the outcome, so a failed attempt can be corrected and retried.
func (s *Session) Generate(ctx context.Context, g Generator) (audit.Record, error) {
	return g.Generate(ctx, s.Snapshot())
}

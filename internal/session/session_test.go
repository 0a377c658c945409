package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/history"
	"github.com/nyashahama/audit-planner/internal/session"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubGenerator struct {
	err  error
	seen audit.Inputs
}

func (g *stubGenerator) Generate(_ context.Context, in audit.Inputs) (audit.Record, error) {
	g.seen = in
	if g.err != nil {
		return audit.Record{}, g.err
	}
	return audit.NewRecord(time.Now(), in, nil, "", "plan"), nil
}

func ptr[T any](v T) *T { return &v }

// ─── DRAFT ────────────────────────────────────────────────────────────────────

func TestNew_StartsWithOneBlankRow(t *testing.T) {
	s := session.New(history.NewStore())

	draft := s.Snapshot()
	require.Len(t, draft.Personnel, 1)
	assert.Equal(t, audit.DefaultRole, draft.Personnel[0].Role)
	assert.Empty(t, draft.Personnel[0].Name)
}

func TestUpdate_OnlyTouchesSetFields(t *testing.T) {
	s := session.New(history.NewStore())

	s.Update(session.Patch{CompanyName: ptr("Acme Corp"), Sector: ptr(audit.SectorTechSoftware)})
	got := s.Update(session.Patch{Description: ptr("Makes anvils.")})

	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, audit.SectorTechSoftware, got.Sector)
	assert.Equal(t, "Makes anvils.", got.Description)
}

func TestUpdate_PersonnelRolesDefaulted(t *testing.T) {
	s := session.New(history.NewStore())

	got := s.Update(session.Patch{Personnel: ptr([]audit.Personnel{
		{Name: "Jane", Role: audit.RoleTaxAuditor},
		{Name: "Raj", Role: "Wizard"},
	})})

	assert.Equal(t, audit.RoleTaxAuditor, got.Personnel[0].Role)
	assert.Equal(t, audit.DefaultRole, got.Personnel[1].Role)
}

func TestPersonnelRowCommands(t *testing.T) {
	s := session.New(history.NewStore())

	s.AddPersonnelRow()
	got := s.AddPersonnelRow()
	require.Len(t, got.Personnel, 3)

	got, err := s.UpdatePersonnelRow(1, audit.Personnel{Name: "Jane", Role: audit.RoleITAuditor})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Personnel[1].Name)

	got, err = s.RemovePersonnelRow(0)
	require.NoError(t, err)
	require.Len(t, got.Personnel, 2)
	assert.Equal(t, "Jane", got.Personnel[0].Name)

	_, err = s.RemovePersonnelRow(5)
	assert.ErrorIs(t, err, audit.ErrRowOutOfRange)
	_, err = s.UpdatePersonnelRow(-1, audit.Personnel{})
	assert.ErrorIs(t, err, audit.ErrRowOutOfRange)
	assert.Len(t, s.Snapshot().Personnel, 2)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := session.New(history.NewStore())
	snap := s.Snapshot()
	snap.Personnel[0].Name = "mutated"

	assert.Empty(t, s.Snapshot().Personnel[0].Name)
}

func TestReset_KeepsHistory(t *testing.T) {
	hist := history.NewStore()
	hist.Append(audit.NewRecord(time.Now(), audit.Inputs{CompanyName: "A"}, nil, "", "plan"))
	s := session.New(hist)
	s.Update(session.Patch{CompanyName: ptr("Acme")})

	got := s.Reset()

	assert.Empty(t, got.CompanyName)
	assert.Len(t, got.Personnel, 1)
	assert.Equal(t, 1, s.History().Len())
}

// ─── GENERATE ─────────────────────────────────────────────────────────────────

func TestGenerate_FailureLeavesDraftUntouched(t *testing.T) {
	s := session.New(history.NewStore())
	s.Update(session.Patch{CompanyName: ptr("Acme Corp")})
	before := s.Snapshot()

	gen := &stubGenerator{err: errors.New("model unavailable")}
	_, err := s.Generate(context.Background(), gen)

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, "Acme Corp", gen.seen.CompanyName)
}

func TestGenerate_GeneratorCannotMutateDraft(t *testing.T) {
	s := session.New(history.NewStore())
	gen := &stubGenerator{}

	_, err := s.Generate(context.Background(), gen)
	require.NoError(t, err)

	gen.seen.Personnel[0].Name = "mutated"
	assert.Empty(t, s.Snapshot().Personnel[0].Name)
}

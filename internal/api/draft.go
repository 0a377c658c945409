package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nyashahama/audit-planner/internal/audit"
)

// ─── GET /api/draft ───────────────────────────────────────────────────────────

// handleGetDraft returns the form as last edited.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, inputsResponse(s.session.Snapshot()))
}

// ─── PATCH /api/draft ─────────────────────────────────────────────────────────

// handleUpdateDraft applies a partial update. Values are stored as given and
// only validated when a plan is generated, so the form can be filled in any
// order.
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftPatch
	if !decode(w, r, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, http.StatusOK, inputsResponse(s.session.Update(patch)))
}

// ─── DELETE /api/draft ────────────────────────────────────────────────────────

// handleResetDraft clears the form. History is kept.
func (s *Server) handleResetDraft(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, inputsResponse(s.session.Reset()))
}

// ─── POST /api/draft/personnel ────────────────────────────────────────────────

func (s *Server) handleAddPersonnel(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusCreated, inputsResponse(s.session.AddPersonnelRow()))
}

// ─── PATCH /api/draft/personnel/:index ────────────────────────────────────────

func (s *Server) handleUpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	i, ok := rowIndex(w, r)
	if !ok {
		return
	}
	var req personnelPayload
	if !decode(w, r, &req) {
		return
	}
	in, err := s.session.UpdatePersonnelRow(i, audit.Personnel{Name: req.Name, Role: audit.Role(req.Role)})
	if err != nil {
		s.respondRowErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, inputsResponse(in))
}

// ─── DELETE /api/draft/personnel/:index ───────────────────────────────────────

func (s *Server) handleRemovePersonnel(w http.ResponseWriter, r *http.Request) {
	i, ok := rowIndex(w, r)
	if !ok {
		return
	}
	in, err := s.session.RemovePersonnelRow(i)
	if err != nil {
		s.respondRowErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, inputsResponse(in))
}

// ─── POST /api/draft/generate ─────────────────────────────────────────────────

// handleGenerateFromDraft runs a generation on the current draft. The draft
// is left as it was whether or not the generation succeeds.
func (s *Server) handleGenerateFromDraft(w http.ResponseWriter, r *http.Request) {
	rec, err := s.session.Generate(r.Context(), s.planner)
	if err != nil {
		s.respondGenerateErr(w, r, err)
		return
	}
	respond(w, http.StatusCreated, recordResponse(rec))
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// rowIndex parses the {index} URL segment. Returns false and writes 400 when
// it is not a number.
func rowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "personnel index must be a number")
		return 0, false
	}
	return i, true
}

func (s *Server) respondRowErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, audit.ErrRowOutOfRange) {
		respondErr(w, http.StatusNotFound, "personnel row not found")
		return
	}
	s.respondInternalErr(w, r, err)
}

package http

import (
	"errors"
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	d := incomeDraftFromForm(r)
	_, err := s.budget.AddIncome(r.Context(), d)
	switch {
	case err == nil:
		redirectHome(w, r)
	case core.IsValidationError(err):
		s.render(w, r, http.StatusUnprocessableEntity, viewState{
			dialog:     dialogAddIncome,
			incomeForm: &d,
			formError:  userMessage(err),
		})
	default:
		s.fail(w, r, log.OpCreate, err)
	}
}

func (s *Server) handleEditIncome(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.budget.BeginEditIncome(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			s.render(w, r, http.StatusNotFound, viewState{pageError: userMessage(err)})
			return
		}
		s.fail(w, r, log.OpBeginEdit, err)
		return
	}
	redirectHome(w, r)
}

// handleUpdateIncome submits the open income edit. With no income edit open
// it does nothing.
func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	d := incomeDraftFromForm(r)
	_, err := s.budget.UpdateIncome(r.Context(), d)
	switch {
	case err == nil:
		redirectHome(w, r)
	case core.IsValidationError(err):
		s.render(w, r, http.StatusUnprocessableEntity, viewState{
			dialog:     dialogEditIncome,
			incomeForm: &d,
			formError:  userMessage(err),
		})
	default:
		s.fail(w, r, log.OpUpdate, err)
	}
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.budget.DeleteIncome(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	redirectHome(w, r)
}

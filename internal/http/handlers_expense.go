package http

import (
	"errors"
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	d := expenseDraftFromForm(r)
	_, err := s.budget.AddExpense(r.Context(), d)
	switch {
	case err == nil:
		redirectHome(w, r)
	case core.IsValidationError(err):
		s.render(w, r, http.StatusUnprocessableEntity, viewState{
			dialog:      dialogAddExpense,
			expenseForm: &d,
			formError:   userMessage(err),
		})
	default:
		s.fail(w, r, log.OpCreate, err)
	}
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.budget.BeginEditExpense(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			s.render(w, r, http.StatusNotFound, viewState{pageError: userMessage(err)})
			return
		}
		s.fail(w, r, log.OpBeginEdit, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	d := expenseDraftFromForm(r)
	_, err := s.budget.UpdateExpense(r.Context(), d)
	switch {
	case err == nil:
		redirectHome(w, r)
	case core.IsValidationError(err):
		s.render(w, r, http.StatusUnprocessableEntity, viewState{
			dialog:      dialogEditExpense,
			expenseForm: &d,
			formError:   userMessage(err),
		})
	default:
		s.fail(w, r, log.OpUpdate, err)
	}
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.budget.DeleteExpense(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	redirectHome(w, r)
}

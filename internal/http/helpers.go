package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"budget/internal/core"
	"budget/internal/services"
)

// Dialog names, also accepted in the ?dialog= query of GET /.
const (
	dialogAddIncome   = "add-income"
	dialogAddExpense  = "add-expense"
	dialogEditIncome  = "edit-income"
	dialogEditExpense = "edit-expense"
)

// parseID reads the {id} path value.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func incomeDraftFromForm(r *http.Request) core.IncomeDraft {
	return core.IncomeDraft{
		Source: sanitizeInput(r.PostFormValue("source")),
		Amount: sanitizeInput(r.PostFormValue("amount")),
	}
}

func expenseDraftFromForm(r *http.Request) core.ExpenseDraft {
	return core.ExpenseDraft{
		Description: sanitizeInput(r.PostFormValue("description")),
		Amount:      sanitizeInput(r.PostFormValue("amount")),
		Category:    sanitizeInput(r.PostFormValue("category")),
	}
}

// userMessage turns a service error into text for the page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptySource):
		return "Please enter an income source."
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description."
	case errors.Is(err, core.ErrEmptyCategory):
		return "Please enter a category."
	case errors.Is(err, core.ErrEmptyAmount):
		return "Please enter an amount."
	case errors.Is(err, core.ErrAmountTooLarge):
		return "Amount is too large."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number, for example 12.50."
	case core.IsValidationError(err):
		return "Text fields are limited to 200 characters."
	case errors.Is(err, services.ErrPersist):
		return "The change was applied but could not be saved. It will be saved with the next successful change."
	case errors.Is(err, services.ErrItemNotFound):
		return "That item no longer exists."
	default:
		return "Something went wrong."
	}
}

// barWidth scales v against top into a whole percentage. Small positive
// values get at least 2 so they stay visible.
func barWidth(v, top core.Amount) int {
	if !top.Decimal().IsPositive() || !v.Decimal().IsPositive() {
		return 0
	}
	w := int(v.Decimal().Mul(core.NewAmount(100).Decimal()).Div(top.Decimal()).Round(0).IntPart())
	if w < 2 {
		w = 2
	}
	if w > 100 {
		w = 100
	}
	return w
}

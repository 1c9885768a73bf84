package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"budget/internal/adapters"
	"budget/internal/core"
	"budget/internal/log"
)

const (
	maxFormBytes       = 64 << 10
	healthCheckTimeout = 2 * time.Second
)

type (
	summaryView struct {
		TotalIncome   string
		TotalExpenses string
		Balance       string
		Negative      bool
	}

	incomeRow struct {
		ID     int64
		Source string
		Amount string
	}

	expenseRow struct {
		ID          int64
		Description string
		Amount      string
		Category    string
	}

	categoryRow struct {
		Name   string
		Amount string
		Width  int
	}

	pageData struct {
		Summary     summaryView
		Income      []incomeRow
		Expenses    []expenseRow
		Categories  []categoryRow
		Dialog      string
		IncomeForm  core.IncomeDraft
		ExpenseForm core.ExpenseDraft
		FormError   string
		Error       string
		Warnings    []string
	}
)

// viewState is what a handler adds on top of the ledger snapshot when it
// re-renders the page instead of redirecting.
type viewState struct {
	dialog      string
	incomeForm  *core.IncomeDraft
	expenseForm *core.ExpenseDraft
	formError   string
	pageError   string
}

func (s *Server) buildPage(snap core.Snapshot, st viewState) pageData {
	sum := snap.Summary
	data := pageData{
		Summary: summaryView{
			TotalIncome:   sum.TotalIncome.Display(),
			TotalExpenses: sum.TotalExpenses.Display(),
			Balance:       sum.Balance.Display(),
			Negative:      sum.Balance.IsNegative(),
		},
		Dialog:      st.dialog,
		IncomeForm:  snap.IncomeDraft,
		ExpenseForm: snap.ExpenseDraft,
		FormError:   st.formError,
		Error:       st.pageError,
	}

	for _, it := range snap.Income {
		data.Income = append(data.Income, incomeRow{ID: it.ID, Source: it.Source, Amount: it.Amount.Display()})
	}
	for _, e := range snap.Expenses {
		data.Expenses = append(data.Expenses, expenseRow{ID: e.ID, Description: e.Description, Amount: e.Amount.Display(), Category: e.Category})
	}

	var largest core.Amount
	for _, c := range sum.ByCategory {
		if c.Amount.Decimal().GreaterThan(largest.Decimal()) {
			largest = c.Amount
		}
	}
	for _, c := range sum.ByCategory {
		data.Categories = append(data.Categories, categoryRow{Name: c.Name, Amount: c.Amount.Display(), Width: barWidth(c.Amount, largest)})
	}

	if data.Dialog == "" {
		if item, ok := snap.Editing.Income(); ok {
			data.Dialog = dialogEditIncome
			data.IncomeForm = item.Draft()
		} else if item, ok := snap.Editing.Expense(); ok {
			data.Dialog = dialogEditExpense
			data.ExpenseForm = item.Draft()
		}
	}
	if st.incomeForm != nil {
		data.IncomeForm = *st.incomeForm
	}
	if st.expenseForm != nil {
		data.ExpenseForm = *st.expenseForm
	}

	for _, w := range s.budget.Warnings() {
		data.Warnings = append(data.Warnings, warningText(w))
	}
	return data
}

func warningText(err error) string {
	var corrupt *adapters.CorruptSlotError
	if errors.As(err, &corrupt) {
		return fmt.Sprintf("Saved %s data could not be read and was reset. The original was kept as %q.", corrupt.Key, corrupt.Key+".corrupt")
	}
	return err.Error()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, st viewState) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := s.buildPage(s.budget.Snapshot(), st)
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, log.FieldOperation, log.OpRender)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// redirectHome completes a successful form post.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseForm bounds and parses the request body, answering 400 on failure.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.logger.WarnContext(r.Context(), "Parse form error", log.FieldError, err, log.FieldPath, r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// fail renders the page with a banner for errors that are not the user's to fix.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Request failed", err, op, log.NewFields().WithPath(r.URL.Path))
	s.render(w, r, http.StatusInternalServerError, viewState{pageError: userMessage(err)})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var st viewState
	switch d := r.URL.Query().Get("dialog"); d {
	case dialogAddIncome, dialogAddExpense:
		if s.budget.Snapshot().Editing.Closed() {
			st.dialog = d
		}
	}
	s.render(w, r, http.StatusOK, st)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.budget.CancelEdit(r.Context())
	redirectHome(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	health := map[string]interface{}{
		"status":         "ok",
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime":         time.Since(s.started).Round(time.Second).String(),
		"requests_total": s.trace.GetMetrics().TotalRequests,
		"load_warnings":  len(s.budget.Warnings()),
	}
	code := http.StatusOK
	if s.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		storage := map[string]interface{}{"status": "ok"}
		if err := s.storage.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Storage health check failed", log.FieldError, err)
			storage["status"] = "error"
			health["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else if keys, err := s.storage.Keys(ctx); err == nil {
			storage["slots"] = keys
		}
		health["storage"] = storage
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(health)
}

type (
	categoryJSON struct {
		Name   string      `json:"name"`
		Amount core.Amount `json:"amount"`
	}

	summaryResponse struct {
		TotalIncome   core.Amount    `json:"total_income"`
		TotalExpenses core.Amount    `json:"total_expenses"`
		Balance       core.Amount    `json:"balance"`
		ByCategory    []categoryJSON `json:"by_category"`
		IncomeCount   int            `json:"income_count"`
		ExpenseCount  int            `json:"expense_count"`
	}
)

func (s *Server) handleSummaryAPI(w http.ResponseWriter, r *http.Request) {
	snap := s.budget.Snapshot()
	resp := summaryResponse{
		TotalIncome:   snap.Summary.TotalIncome,
		TotalExpenses: snap.Summary.TotalExpenses,
		Balance:       snap.Summary.Balance,
		ByCategory:    []categoryJSON{},
		IncomeCount:   len(snap.Income),
		ExpenseCount:  len(snap.Expenses),
	}
	for _, c := range snap.Summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryJSON{Name: c.Name, Amount: c.Amount})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.ErrorContext(r.Context(), "Summary encode failed", log.FieldError, err)
	}
}

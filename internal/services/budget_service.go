package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"budget/internal/adapters"
	"budget/internal/core"
	"budget/internal/log"
)

var (
	// ErrItemNotFound is returned when an edit is started for an unknown id.
	ErrItemNotFound = errors.New("item not found")
	// ErrPersist wraps slot write failures. The in-memory change is kept and
	// goes out with the next successful write of that collection.
	ErrPersist = errors.New("persist budget")
)

// Persister is the persistence side of the budget, satisfied by
// adapters.SlotAdapter.
type Persister interface {
	Load(ctx context.Context) (adapters.LoadResult, error)
	SaveIncome(ctx context.Context, items []core.IncomeItem) error
	SaveExpenses(ctx context.Context, items []core.ExpenseItem) error
}

// BudgetService owns the ledger for one process. Every mutation runs under a
// mutex and is followed by a whole-collection write of what changed.
type BudgetService struct {
	mu       sync.Mutex
	ledger   *core.Ledger
	persist  Persister
	logger   *log.Logger
	warnings []error
}

// NewBudgetService hydrates the ledger from p. Malformed slots are reported by
// Warnings rather than failing startup.
func NewBudgetService(ctx context.Context, p Persister, logger *log.Logger) (*BudgetService, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	res, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	return &BudgetService{
		ledger:   core.NewLedger(res.Income, res.Expenses),
		persist:  p,
		logger:   logger.WithComponent(log.ComponentBudget),
		warnings: res.Warnings,
	}, nil
}

// Warnings returns the problems found while loading persisted data.
func (s *BudgetService) Warnings() []error {
	return append([]error(nil), s.warnings...)
}

// Snapshot returns the current state and aggregates.
func (s *BudgetService) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

func (s *BudgetService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Summary()
}

func (s *BudgetService) AddIncome(ctx context.Context, d core.IncomeDraft) (core.IncomeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.AddIncome(d)
	if err != nil {
		s.logger.DebugContext(ctx, "Income rejected", log.FieldError, err, log.FieldOperation, log.OpValidate)
		return core.IncomeItem{}, err
	}
	s.logger.InfoContext(ctx, "Income added",
		log.NewFields().WithIncome(item.ID, item.Source, item.Amount.String()).WithOperation(log.OpCreate).ToSlice()...)
	return item, s.saveIncome(ctx)
}

func (s *BudgetService) AddExpense(ctx context.Context, d core.ExpenseDraft) (core.ExpenseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.AddExpense(d)
	if err != nil {
		s.logger.DebugContext(ctx, "Expense rejected", log.FieldError, err, log.FieldOperation, log.OpValidate)
		return core.ExpenseItem{}, err
	}
	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithExpense(item.ID, item.Description, item.Amount.String(), item.Category).WithOperation(log.OpCreate).ToSlice()...)
	return item, s.saveExpenses(ctx)
}

// BeginEditIncome opens the income item with id for editing.
func (s *BudgetService) BeginEditIncome(ctx context.Context, id int64) (core.IncomeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.ledger.FindIncome(id)
	if !ok {
		return core.IncomeItem{}, fmt.Errorf("income %d: %w", id, ErrItemNotFound)
	}
	s.ledger.BeginEditIncome(item)
	s.logger.DebugContext(ctx, "Income edit opened", log.NewFields().WithItem(log.KindIncome, id).WithOperation(log.OpBeginEdit).ToSlice()...)
	return item, nil
}

func (s *BudgetService) BeginEditExpense(ctx context.Context, id int64) (core.ExpenseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.ledger.FindExpense(id)
	if !ok {
		return core.ExpenseItem{}, fmt.Errorf("expense %d: %w", id, ErrItemNotFound)
	}
	s.ledger.BeginEditExpense(item)
	s.logger.DebugContext(ctx, "Expense edit opened", log.NewFields().WithItem(log.KindExpense, id).WithOperation(log.OpBeginEdit).ToSlice()...)
	return item, nil
}

func (s *BudgetService) CancelEdit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.CancelEdit()
	s.logger.DebugContext(ctx, "Edit cancelled", log.FieldOperation, log.OpCancel)
}

// UpdateIncome submits the open income edit. It reports false when no income
// edit is open.
func (s *BudgetService) UpdateIncome(ctx context.Context, d core.IncomeDraft) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, _ := s.ledger.Editing().Income()
	ok, err := s.ledger.UpdateIncome(d)
	if err != nil || !ok {
		return ok, err
	}
	s.logger.InfoContext(ctx, "Income updated",
		log.NewFields().WithIncome(target.ID, d.Source, d.Amount).WithOperation(log.OpUpdate).ToSlice()...)
	return true, s.saveIncome(ctx)
}

func (s *BudgetService) UpdateExpense(ctx context.Context, d core.ExpenseDraft) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, _ := s.ledger.Editing().Expense()
	ok, err := s.ledger.UpdateExpense(d)
	if err != nil || !ok {
		return ok, err
	}
	s.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithExpense(target.ID, d.Description, d.Amount, d.Category).WithOperation(log.OpUpdate).ToSlice()...)
	return true, s.saveExpenses(ctx)
}

// DeleteIncome removes the income item with id. Deleting an unknown id is a
// no-op that reports false and writes nothing.
func (s *BudgetService) DeleteIncome(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.DeleteIncome(id) {
		return false, nil
	}
	s.logger.InfoContext(ctx, "Income deleted", log.NewFields().WithItem(log.KindIncome, id).WithOperation(log.OpDelete).ToSlice()...)
	return true, s.saveIncome(ctx)
}

func (s *BudgetService) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.DeleteExpense(id) {
		return false, nil
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.NewFields().WithItem(log.KindExpense, id).WithOperation(log.OpDelete).ToSlice()...)
	return true, s.saveExpenses(ctx)
}

// saveIncome and saveExpenses must be called with s.mu held.
func (s *BudgetService) saveIncome(ctx context.Context) error {
	if err := s.persist.SaveIncome(ctx, s.ledger.Income()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist income",
			log.NewFields().WithSlot(adapters.IncomeSlot).WithError(err).WithOperation(log.OpSave).ToSlice()...)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *BudgetService) saveExpenses(ctx context.Context) error {
	if err := s.persist.SaveExpenses(ctx, s.ledger.Expenses()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expenses",
			log.NewFields().WithSlot(adapters.ExpensesSlot).WithError(err).WithOperation(log.OpSave).ToSlice()...)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

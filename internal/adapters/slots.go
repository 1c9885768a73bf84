package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/sheets"
)

// Slot keys of the persisted layout.
const (
	IncomeSlot   = "income"
	ExpensesSlot = "expenses"

	// corruptSuffix names the slot that keeps an unreadable value around so
	// the next whole-collection write does not destroy it.
	corruptSuffix = ".corrupt"
)

// LoadResult is the outcome of hydrating both collections. Warnings lists
// slots that held malformed data and were replaced by an empty collection.
type LoadResult struct {
	Income   []core.IncomeItem
	Expenses []core.ExpenseItem
	Warnings []error
}

// CorruptSlotError reports a slot whose value could not be decoded.
type CorruptSlotError struct {
	Key string
	Err error
}

func (e *CorruptSlotError) Error() string {
	return fmt.Sprintf("slot %q holds malformed data: %v", e.Key, e.Err)
}

func (e *CorruptSlotError) Unwrap() error { return e.Err }

// SlotAdapter mirrors the income and expense collections into a SlotStore,
// one JSON array per slot.
type SlotAdapter struct {
	store  sheets.SlotStore
	logger *log.Logger
}

func NewSlotAdapter(store sheets.SlotStore, logger *log.Logger) *SlotAdapter {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SlotAdapter{
		store:  store,
		logger: logger.WithComponent(log.ComponentPersist),
	}
}

// Load reads both slots. A missing slot yields an empty collection. A
// malformed slot also yields an empty collection, plus a warning, and its raw
// value is copied to "<key>.corrupt". Only backend failures are returned as
// errors.
func (a *SlotAdapter) Load(ctx context.Context) (LoadResult, error) {
	var res LoadResult

	income, warn, err := loadSlot[core.IncomeItem](ctx, a, IncomeSlot)
	if err != nil {
		return LoadResult{}, err
	}
	res.Income = income
	if warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}

	expenses, warn, err := loadSlot[core.ExpenseItem](ctx, a, ExpensesSlot)
	if err != nil {
		return LoadResult{}, err
	}
	res.Expenses = expenses
	if warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}

	a.logger.InfoContext(ctx, "Budget loaded",
		log.FieldOperation, log.OpLoad,
		"income_count", len(res.Income),
		"expense_count", len(res.Expenses),
		"warnings", len(res.Warnings))
	return res, nil
}

func loadSlot[T any](ctx context.Context, a *SlotAdapter, key string) ([]T, *CorruptSlotError, error) {
	raw, err := a.store.Get(ctx, key)
	if errors.Is(err, sheets.ErrNotFound) {
		return []T{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read slot %s: %w", key, err)
	}

	items, decodeErr := decodeSlot[T](raw)
	if decodeErr == nil {
		return items, nil, nil
	}

	warn := &CorruptSlotError{Key: key, Err: decodeErr}
	a.logger.WarnContext(ctx, "Malformed persisted data, starting with an empty collection",
		log.NewFields().WithSlot(key).WithError(decodeErr).WithOperation(log.OpLoad).ToSlice()...)

	if err := a.store.Set(ctx, key+corruptSuffix, raw); err != nil {
		a.logger.ErrorContext(ctx, "Failed to back up malformed slot",
			log.NewFields().WithSlot(key+corruptSuffix).WithError(err).ToSlice()...)
	}
	return []T{}, warn, nil
}

// decodeSlot parses a JSON array. An empty value or JSON null is an empty
// collection.
func decodeSlot[T any](raw string) ([]T, error) {
	var items []T
	if raw == "" {
		return []T{}, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveIncome writes the whole income collection to its slot.
func (a *SlotAdapter) SaveIncome(ctx context.Context, items []core.IncomeItem) error {
	return saveSlot(ctx, a, IncomeSlot, items)
}

// SaveExpenses writes the whole expense collection to its slot.
func (a *SlotAdapter) SaveExpenses(ctx context.Context, items []core.ExpenseItem) error {
	return saveSlot(ctx, a, ExpensesSlot, items)
}

func saveSlot[T any](ctx context.Context, a *SlotAdapter, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := a.store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	a.logger.DebugContext(ctx, "Slot written",
		log.FieldSlot, key,
		log.FieldCount, len(items),
		log.FieldOperation, log.OpSave)
	return nil
}

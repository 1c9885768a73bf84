package core

import (
	"slices"
	"time"
)

// Ledger holds the income and expense collections together with the view
// state that goes with them: one draft per add form and the edit target.
//
// All operations are synchronous state transitions. A Ledger is not safe for
// concurrent use; callers serialize access.
type Ledger struct {
	income       []IncomeItem
	expenses     []ExpenseItem
	incomeDraft  IncomeDraft
	expenseDraft ExpenseDraft
	editing      EditTarget
	now          func() time.Time
}

// Snapshot is a copy of the ledger state plus its derived aggregates.
type Snapshot struct {
	Income       []IncomeItem
	Expenses     []ExpenseItem
	IncomeDraft  IncomeDraft
	ExpenseDraft ExpenseDraft
	Editing      EditTarget
	Summary      Summary
}

// NewLedger returns a ledger hydrated with the given collections, in order.
func NewLedger(income []IncomeItem, expenses []ExpenseItem) *Ledger {
	return &Ledger{
		income:   slices.Clone(income),
		expenses: slices.Clone(expenses),
		now:      time.Now,
	}
}

// SetClock replaces the time source used to derive item ids.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// AddIncome appends a new income item built from the draft. On a validation
// error the collection is unchanged and the draft is kept for re-display.
func (l *Ledger) AddIncome(d IncomeDraft) (IncomeItem, error) {
	l.incomeDraft = d
	item, err := d.Parse(nextID(l.now(), l.income, func(i IncomeItem) int64 { return i.ID }))
	if err != nil {
		return IncomeItem{}, err
	}
	l.income = append(l.income, item)
	l.incomeDraft = IncomeDraft{}
	return item, nil
}

// AddExpense appends a new expense item built from the draft.
func (l *Ledger) AddExpense(d ExpenseDraft) (ExpenseItem, error) {
	l.expenseDraft = d
	item, err := d.Parse(nextID(l.now(), l.expenses, func(e ExpenseItem) int64 { return e.ID }))
	if err != nil {
		return ExpenseItem{}, err
	}
	l.expenses = append(l.expenses, item)
	l.expenseDraft = ExpenseDraft{}
	return item, nil
}

// BeginEditIncome checks out a copy of item, replacing any open edit.
func (l *Ledger) BeginEditIncome(item IncomeItem) {
	l.editing = EditIncome(item)
}

func (l *Ledger) BeginEditExpense(item ExpenseItem) {
	l.editing = EditExpense(item)
}

// CancelEdit closes the edit target without touching the collections.
func (l *Ledger) CancelEdit() {
	l.editing = EditTarget{}
}

// UpdateIncome applies the submitted fields to the income item under edit and
// closes the edit target. It reports false, with no change, when no income
// edit is open or the item is gone. On a validation error the edit stays open.
func (l *Ledger) UpdateIncome(d IncomeDraft) (bool, error) {
	target, ok := l.editing.Income()
	if !ok {
		return false, nil
	}
	item, err := d.Parse(target.ID)
	if err != nil {
		return false, err
	}
	l.editing = EditTarget{}
	i := slices.IndexFunc(l.income, func(in IncomeItem) bool { return in.ID == item.ID })
	if i < 0 {
		return false, nil
	}
	l.income[i] = item
	return true, nil
}

func (l *Ledger) UpdateExpense(d ExpenseDraft) (bool, error) {
	target, ok := l.editing.Expense()
	if !ok {
		return false, nil
	}
	item, err := d.Parse(target.ID)
	if err != nil {
		return false, err
	}
	l.editing = EditTarget{}
	i := slices.IndexFunc(l.expenses, func(e ExpenseItem) bool { return e.ID == item.ID })
	if i < 0 {
		return false, nil
	}
	l.expenses[i] = item
	return true, nil
}

// DeleteIncome removes the item with the given id, reporting whether one was
// found. An edit open on that item is closed.
func (l *Ledger) DeleteIncome(id int64) bool {
	n := len(l.income)
	l.income = slices.DeleteFunc(l.income, func(i IncomeItem) bool { return i.ID == id })
	if target, ok := l.editing.Income(); ok && target.ID == id {
		l.editing = EditTarget{}
	}
	return len(l.income) != n
}

func (l *Ledger) DeleteExpense(id int64) bool {
	n := len(l.expenses)
	l.expenses = slices.DeleteFunc(l.expenses, func(e ExpenseItem) bool { return e.ID == id })
	if target, ok := l.editing.Expense(); ok && target.ID == id {
		l.editing = EditTarget{}
	}
	return len(l.expenses) != n
}

// FindIncome returns the income item with the given id.
func (l *Ledger) FindIncome(id int64) (IncomeItem, bool) {
	i := slices.IndexFunc(l.income, func(i IncomeItem) bool { return i.ID == id })
	if i < 0 {
		return IncomeItem{}, false
	}
	return l.income[i], true
}

func (l *Ledger) FindExpense(id int64) (ExpenseItem, bool) {
	i := slices.IndexFunc(l.expenses, func(e ExpenseItem) bool { return e.ID == id })
	if i < 0 {
		return ExpenseItem{}, false
	}
	return l.expenses[i], true
}

func (l *Ledger) Income() []IncomeItem    { return slices.Clone(l.income) }
func (l *Ledger) Expenses() []ExpenseItem { return slices.Clone(l.expenses) }
func (l *Ledger) Editing() EditTarget     { return l.editing }

// Summary recomputes the aggregates from the current collections.
func (l *Ledger) Summary() Summary {
	return Summarize(l.income, l.expenses)
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Income:       l.Income(),
		Expenses:     l.Expenses(),
		IncomeDraft:  l.incomeDraft,
		ExpenseDraft: l.expenseDraft,
		Editing:      l.editing,
		Summary:      l.Summary(),
	}
}

// nextID derives an id from the clock in milliseconds, bumped past the
// largest id in the collection so ids stay unique and increasing.
func nextID[T any](now time.Time, items []T, id func(T) int64) int64 {
	next := now.UnixMilli()
	for _, it := range items {
		if v := id(it); v >= next {
			next = v + 1
		}
	}
	return next
}

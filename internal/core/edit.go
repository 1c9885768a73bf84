package core

// EditKind tags which edit dialog, if any, is open.
type EditKind int

const (
	EditClosed EditKind = iota
	EditingIncome
	EditingExpense
)

func (k EditKind) String() string {
	switch k {
	case EditingIncome:
		return "income"
	case EditingExpense:
		return "expense"
	default:
		return "closed"
	}
}

// EditTarget is the item checked out for editing. Only the payload matching
// Kind is meaningful; the zero value is Closed.
type EditTarget struct {
	kind    EditKind
	income  IncomeItem
	expense ExpenseItem
}

func EditIncome(item IncomeItem) EditTarget {
	return EditTarget{kind: EditingIncome, income: item}
}

func EditExpense(item ExpenseItem) EditTarget {
	return EditTarget{kind: EditingExpense, expense: item}
}

func (t EditTarget) Kind() EditKind { return t.kind }
func (t EditTarget) Closed() bool   { return t.kind == EditClosed }

// Income returns the income item under edit, if that is what is open.
func (t EditTarget) Income() (IncomeItem, bool) {
	return t.income, t.kind == EditingIncome
}

// Expense returns the expense item under edit, if that is what is open.
func (t EditTarget) Expense() (ExpenseItem, bool) {
	return t.expense, t.kind == EditingExpense
}

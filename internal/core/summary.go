package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Amount
}

// Summary holds the derived aggregates of a ledger.
type Summary struct {
	TotalIncome   Amount
	TotalExpenses Amount
	Balance       Amount
	ByCategory    []CategoryAmount // expense totals, first-seen category order
}

// Summarize computes totals and balance from the collections. It is pure and
// linear in the number of items.
func Summarize(income []IncomeItem, expenses []ExpenseItem) Summary {
	var s Summary
	for _, it := range income {
		s.TotalIncome = s.TotalIncome.Add(it.Amount)
	}
	index := map[string]int{}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: e.Category})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

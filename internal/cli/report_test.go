package cli

import (
	"strings"
	"testing"

	"budget/internal/core"
)

func TestSummaryMarkdownEmpty(t *testing.T) {
	md := SummaryMarkdown(core.NewLedger(nil, nil).Snapshot())
	for _, want := range []string{
		"| Total Income | $0 |",
		"| **Balance** | **$0** |",
		"_No income sources added yet_",
		"_No expenses added yet_",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "By Category") {
		t.Errorf("empty budget should have no category section")
	}
}

func TestSummaryMarkdownItems(t *testing.T) {
	l := core.NewLedger(
		[]core.IncomeItem{{ID: 1, Source: "Salary", Amount: core.NewAmount(5000)}},
		[]core.ExpenseItem{
			{ID: 2, Description: "Rent", Amount: core.NewAmount(1500), Category: "Housing"},
			{ID: 3, Description: "Pipes | fittings", Amount: core.NewAmount(12.5), Category: "Housing"},
		},
	)
	md := SummaryMarkdown(l.Snapshot())
	for _, want := range []string{
		"| 1 | Salary | $5,000 |",
		"| 2 | Rent | Housing | $1,500 |",
		`| 3 | Pipes \| fittings | Housing | $12.50 |`,
		"| **Balance** | **$3,487.50** |",
		"| Housing | $1,512.50 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

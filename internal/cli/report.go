package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"budget/internal/core"
)

// SummaryMarkdown renders totals, both collections and the per-category
// breakdown as a Markdown document.
func SummaryMarkdown(snap core.Snapshot) string {
	var b strings.Builder
	sum := snap.Summary

	b.WriteString("# Budget\n\n")
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total Income | %s |\n", sum.TotalIncome.Display())
	fmt.Fprintf(&b, "| Total Expenses | %s |\n", sum.TotalExpenses.Display())
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", sum.Balance.Display())

	b.WriteString("\n## Income\n\n")
	if len(snap.Income) == 0 {
		b.WriteString("_No income sources added yet_\n")
	} else {
		b.WriteString("| ID | Source | Amount |\n|---:|---|---:|\n")
		for _, it := range snap.Income {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", it.ID, cell(it.Source), it.Amount.Display())
		}
	}

	b.WriteString("\n## Expenses\n\n")
	if len(snap.Expenses) == 0 {
		b.WriteString("_No expenses added yet_\n")
	} else {
		b.WriteString("| ID | Description | Category | Amount |\n|---:|---|---|---:|\n")
		for _, e := range snap.Expenses {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", e.ID, cell(e.Description), cell(e.Category), e.Amount.Display())
		}
	}

	if len(sum.ByCategory) > 0 {
		b.WriteString("\n## By Category\n\n")
		b.WriteString("| Category | Amount |\n|---|---:|\n")
		for _, c := range sum.ByCategory {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(c.Name), c.Amount.Display())
		}
	}
	return b.String()
}

// cell keeps user text from breaking a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// printMarkdown writes md to w, styled for the terminal unless plain is set.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

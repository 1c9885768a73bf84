package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"budget/internal/core"
	"budget/internal/services"
)

// report maps a service error to an exit status, printing it first. Bad
// input is a usage error.
func (e *Env) report(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case core.IsValidationError(err):
		e.errorf("Error: %v\n", err)
		return subcommands.ExitUsageError
	case errors.Is(err, services.ErrPersist):
		e.errorf("Error: change not saved: %v\n", err)
	default:
		e.errorf("Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

// setFlags lists the flags given on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

type addIncomeCmd struct {
	env    *Env
	source string
	amount string
}

func (*addIncomeCmd) Name() string     { return "add-income" }
func (*addIncomeCmd) Synopsis() string { return "add an income source" }
func (*addIncomeCmd) Usage() string {
	return `budget add-income -source <name> -amount <amount>
`
}

func (c *addIncomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "income source, e.g. Salary")
	f.StringVar(&c.amount, "amount", "", "amount, e.g. 5000 or 12,50")
}

func (c *addIncomeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		item, err := s.Budget.AddIncome(ctx, core.IncomeDraft{Source: c.source, Amount: c.amount})
		if status := c.env.report(err); status != subcommands.ExitSuccess {
			return status
		}
		c.env.printf("Added income %d: %s %s\n", item.ID, item.Source, item.Amount.Display())
		return subcommands.ExitSuccess
	})
}

type addExpenseCmd struct {
	env         *Env
	description string
	amount      string
	category    string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "add an expense" }
func (*addExpenseCmd) Usage() string {
	return `budget add-expense -description <text> -amount <amount> -category <name>
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "description", "", "what the money went to")
	f.StringVar(&c.amount, "amount", "", "amount, e.g. 1500")
	f.StringVar(&c.category, "category", "", "category, e.g. Housing")
}

func (c *addExpenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		item, err := s.Budget.AddExpense(ctx, core.ExpenseDraft{Description: c.description, Amount: c.amount, Category: c.category})
		if status := c.env.report(err); status != subcommands.ExitSuccess {
			return status
		}
		c.env.printf("Added expense %d: %s %s (%s)\n", item.ID, item.Description, item.Amount.Display(), item.Category)
		return subcommands.ExitSuccess
	})
}

type editIncomeCmd struct {
	env    *Env
	id     int64
	source string
	amount string
}

func (*editIncomeCmd) Name() string     { return "edit-income" }
func (*editIncomeCmd) Synopsis() string { return "change an income source" }
func (*editIncomeCmd) Usage() string {
	return `budget edit-income -id <id> [-source <name>] [-amount <amount>]

  Fields that are not given keep their current value.
`
}

func (c *editIncomeCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "id of the income item")
	f.StringVar(&c.source, "source", "", "new source")
	f.StringVar(&c.amount, "amount", "", "new amount")
}

func (c *editIncomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := setFlags(f)
	if !set["id"] {
		c.env.errorf("Error: -id is required\n")
		return subcommands.ExitUsageError
	}
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		item, err := s.Budget.BeginEditIncome(ctx, c.id)
		if err != nil {
			return c.env.report(err)
		}
		d := item.Draft()
		if set["source"] {
			d.Source = c.source
		}
		if set["amount"] {
			d.Amount = c.amount
		}
		if _, err := s.Budget.UpdateIncome(ctx, d); err != nil {
			return c.env.report(err)
		}
		c.env.printf("Updated income %d\n", c.id)
		return subcommands.ExitSuccess
	})
}

type editExpenseCmd struct {
	env         *Env
	id          int64
	description string
	amount      string
	category    string
}

func (*editExpenseCmd) Name() string     { return "edit-expense" }
func (*editExpenseCmd) Synopsis() string { return "change an expense" }
func (*editExpenseCmd) Usage() string {
	return `budget edit-expense -id <id> [-description <text>] [-amount <amount>] [-category <name>]

  Fields that are not given keep their current value.
`
}

func (c *editExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "id of the expense")
	f.StringVar(&c.description, "description", "", "new description")
	f.StringVar(&c.amount, "amount", "", "new amount")
	f.StringVar(&c.category, "category", "", "new category")
}

func (c *editExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := setFlags(f)
	if !set["id"] {
		c.env.errorf("Error: -id is required\n")
		return subcommands.ExitUsageError
	}
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		item, err := s.Budget.BeginEditExpense(ctx, c.id)
		if err != nil {
			return c.env.report(err)
		}
		d := item.Draft()
		if set["description"] {
			d.Description = c.description
		}
		if set["amount"] {
			d.Amount = c.amount
		}
		if set["category"] {
			d.Category = c.category
		}
		if _, err := s.Budget.UpdateExpense(ctx, d); err != nil {
			return c.env.report(err)
		}
		c.env.printf("Updated expense %d\n", c.id)
		return subcommands.ExitSuccess
	})
}

type deleteIncomeCmd struct {
	env *Env
	id  int64
}

func (*deleteIncomeCmd) Name() string     { return "delete-income" }
func (*deleteIncomeCmd) Synopsis() string { return "remove an income source" }
func (*deleteIncomeCmd) Usage() string    { return "budget delete-income -id <id>\n" }

func (c *deleteIncomeCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "id of the income item")
}

func (c *deleteIncomeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		ok, err := s.Budget.DeleteIncome(ctx, c.id)
		if err != nil {
			return c.env.report(err)
		}
		if !ok {
			c.env.errorf("No income with id %d\n", c.id)
			return subcommands.ExitFailure
		}
		c.env.printf("Deleted income %d\n", c.id)
		return subcommands.ExitSuccess
	})
}

type deleteExpenseCmd struct {
	env *Env
	id  int64
}

func (*deleteExpenseCmd) Name() string     { return "delete-expense" }
func (*deleteExpenseCmd) Synopsis() string { return "remove an expense" }
func (*deleteExpenseCmd) Usage() string    { return "budget delete-expense -id <id>\n" }

func (c *deleteExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "id of the expense")
}

func (c *deleteExpenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		ok, err := s.Budget.DeleteExpense(ctx, c.id)
		if err != nil {
			return c.env.report(err)
		}
		if !ok {
			c.env.errorf("No expense with id %d\n", c.id)
			return subcommands.ExitFailure
		}
		c.env.printf("Deleted expense %d\n", c.id)
		return subcommands.ExitSuccess
	})
}

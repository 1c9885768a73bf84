package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	env   *Env
	plain bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print totals, items and the category breakdown" }
func (*summaryCmd) Usage() string {
	return `budget summary [-plain]

  Prints the budget as a Markdown report.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print raw Markdown without terminal styling")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) subcommands.ExitStatus {
		if err := printMarkdown(c.env.Out, SummaryMarkdown(s.Budget.Snapshot()), c.plain); err != nil {
			c.env.errorf("Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

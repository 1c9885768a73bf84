package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

// Env is what every command runs against. Tests swap Open and the writers.
type Env struct {
	Out io.Writer
	Err io.Writer

	// Open returns a ready budget. serve is true for the long-running HTTP
	// command.
	Open func(ctx context.Context, serve bool) (*Session, error)
}

// DefaultEnv reads configuration from the process environment.
func DefaultEnv() *Env {
	return &Env{
		Out:  os.Stdout,
		Err:  os.Stderr,
		Open: openFromEnvironment,
	}
}

// Commands returns every budget subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&serveCmd{env: env},
		&summaryCmd{env: env},
		&addIncomeCmd{env: env},
		&addExpenseCmd{env: env},
		&editIncomeCmd{env: env},
		&editExpenseCmd{env: env},
		&deleteIncomeCmd{env: env},
		&deleteExpenseCmd{env: env},
	}
}

// withSession opens the budget, runs fn and closes the backend.
func (e *Env) withSession(ctx context.Context, fn func(*Session) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := e.Open(ctx, false)
	if err != nil {
		e.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := s.Close(); err != nil {
			e.errorf("Error closing backend: %v\n", err)
		}
	}()
	return fn(s)
}

func (e *Env) errorf(format string, args ...any) {
	fmt.Fprintf(e.Err, format, args...)
}

func (e *Env) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

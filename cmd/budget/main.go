package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"budget/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cli.Commands(cli.DefaultEnv()) {
		commander.Register(c, "budget")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

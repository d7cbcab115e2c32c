// Command cryptotax computes the capital gains realized on virtual currency
// holdings for one tax year.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&reportCmd{}, "")
	commander.Register(&balanceCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

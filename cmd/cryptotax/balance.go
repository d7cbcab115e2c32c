package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	ledger "github.com/slatteryjim/crypto-tax-lots"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	base string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "per-asset balance of an inventory snapshot" }
func (*balanceCmd) Usage() string {
	return `cryptotax balance [-base EUR] <inventory.csv>

  Prints the quantity, average cost and total cost of every asset in the snapshot.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "EUR", "Base fiat currency")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one inventory file is required")
		return subcommands.ExitUsageError
	}
	inv, err := ledger.LoadSnapshot(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inventory: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, line := range ledger.BalanceLines(inv.Balance(), c.base) {
		fmt.Println(line)
	}
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/subcommands"
	ledger "github.com/slatteryjim/crypto-tax-lots"
)

// priceFiles collects repeated -price ASSET=path flags.
type priceFiles map[string]string

func (p priceFiles) String() string {
	parts := make([]string, 0, len(p))
	for asset, path := range p {
		parts = append(parts, asset+"="+path)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (p priceFiles) Set(v string) error {
	asset, path, ok := strings.Cut(v, "=")
	if !ok || asset == "" || path == "" {
		return fmt.Errorf("expected ASSET=path, got %q", v)
	}
	p[asset] = path
	return nil
}

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	year      int
	method    string
	base      string
	inventory string
	out       string
	logLevel  string
	logFile   string
	prices    priceFiles
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "capital gains report for a tax year" }
func (*reportCmd) Usage() string {
	return `cryptotax report -year <year> [-method FIFO|LIFO] [-base EUR] [-inventory <csv>] [-price ASSET=<file>]... [-out <csv>] <transactions.csv>...

  Replays the transaction files on top of the opening inventory, narrates every
  transaction of the year with the lots it consumed, prints the year summary and
  writes the closing inventory.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.prices = priceFiles{}
	f.IntVar(&c.year, "year", 0, "Tax year to report (required)")
	f.StringVar(&c.method, "method", "FIFO", "Cost basis method (FIFO, LIFO)")
	f.StringVar(&c.base, "base", "EUR", "Base fiat currency")
	f.StringVar(&c.inventory, "inventory", "", "Opening inventory snapshot (lot,asset,qty,basis)")
	f.StringVar(&c.out, "out", "", "Closing inventory snapshot. Defaults to ./output/inv_final-<year>.csv")
	f.StringVar(&c.logLevel, "log", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&c.logFile, "log-file", "", "Also write the report to this file")
	f.Var(c.prices, "price", "Price file of a swap-valuation asset, as ASSET=path (repeatable)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.year == 0 {
		fmt.Fprintln(os.Stderr, "-year is required")
		return subcommands.ExitUsageError
	}
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one transaction file is required")
		return subcommands.ExitUsageError
	}
	method, err := ledger.ParseMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cost basis method: %v\n", err)
		return subcommands.ExitUsageError
	}

	log, closeLog, err := newLogger(c.logLevel, c.logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer closeLog()

	oracles := ledger.Oracles{}
	for asset, path := range c.prices {
		o, err := ledger.LoadPriceOracle(path, asset)
		if err != nil {
			log.Errorf("Error loading %s prices: %v", asset, err)
			return subcommands.ExitFailure
		}
		oracles[asset] = o
	}

	opening := ledger.NewInventory()
	if c.inventory != "" {
		if opening, err = ledger.LoadSnapshot(c.inventory); err != nil {
			log.Errorf("Error loading inventory: %v", err)
			return subcommands.ExitFailure
		}
	}

	txs, err := ledger.ReadTransactionFiles(f.Args()...)
	if err != nil {
		log.Errorf("Error reading transactions: %v", err)
		return subcommands.ExitFailure
	}

	engine, err := ledger.NewEngine(ledger.EngineConfig{
		Year:    c.year,
		Method:  method,
		Base:    c.base,
		Oracles: oracles,
		Logger:  log,
	}, opening)
	if err != nil {
		log.Errorf("Error: %v", err)
		return subcommands.ExitUsageError
	}
	if err := engine.Process(txs); err != nil {
		log.Errorf("Error: %v", err)
		return subcommands.ExitFailure
	}
	engine.ReportSummary()

	out := c.out
	if out == "" {
		out = fmt.Sprintf("./output/inv_final-%d.csv", c.year)
	}
	if err := ledger.SaveSnapshot(out, engine.Inventory(), ledger.DefaultPrecision); err != nil {
		log.Errorf("Error writing closing inventory: %v", err)
		return subcommands.ExitFailure
	}
	log.Infof("Closing inventory written to %s", out)
	return subcommands.ExitSuccess
}

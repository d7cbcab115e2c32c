package ledger

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the given currency using its symbol and
// separators, e.g. "€1,234.56". Unknown currencies fall back to two decimals
// followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// SummaryLines renders the year summary of the tax ledger as a table, one line per asset
// plus a total line.
func SummaryLines(year int, base string, taxes *TaxLedger) []string {
	b := &bytes.Buffer{}
	fmt.Fprintln(b, strings.Repeat("~", 54))
	fmt.Fprintf(b, " SUMMARY YEAR %d\n", year)

	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "| Asset\t| Disposals\t| Proceeds\t| Cost\t| Gain\t")
	for _, s := range taxes.YearSummary() {
		writeSummaryRow(tw, s, base)
	}
	writeSummaryRow(tw, taxes.Totals(), base)
	if err := tw.Flush(); err != nil {
		panic(err.Error())
	}
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

func writeSummaryRow(w *tabwriter.Writer, s AssetSummary, base string) {
	fmt.Fprintf(w, "| %s\t| %d\t| %s\t| %s\t| %s\t\n", s.Asset, s.Events,
		FormatMoney(s.Proceeds, base), FormatMoney(s.Cost, base), FormatMoney(s.Gain, base))
}

// BalanceLines renders a balance as a table with each asset's quantity, average cost and total cost.
func BalanceLines(balance []Balance, base string) []string {
	b := &bytes.Buffer{}
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Asset\tQuantity\tAverage cost\tTotal cost\t")
	for _, bal := range balance {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", bal.Asset, bal.Quantity.StringFixed(8),
			FormatMoney(bal.AverageCost, base), FormatMoney(bal.AverageCost.Mul(bal.Quantity), base))
	}
	if err := tw.Flush(); err != nil {
		panic(err.Error())
	}
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	ledger "github.com/slatteryjim/crypto-tax-lots"
)

func TestPriceFiles(t *testing.T) {
	g := NewGomegaWithT(t)

	p := priceFiles{}
	g.Expect(p.Set("XMR=prices/xmr.db")).To(Succeed())
	g.Expect(p.Set("BTC=prices/btc.db")).To(Succeed())
	g.Expect(p.String()).To(Equal("BTC=prices/btc.db,XMR=prices/xmr.db"))

	g.Expect(p.Set("XMR")).ToNot(Succeed())
	g.Expect(p.Set("=prices/xmr.db")).ToNot(Succeed())
}

func TestMessageFormatter(t *testing.T) {
	g := NewGomegaWithT(t)

	b, err := messageFormatter{}.Format(&logrus.Entry{Message: "Opening inventory"})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(b)).To(Equal("Opening inventory\n"))

	b, err = messageFormatter{}.Format(&logrus.Entry{Message: "lot recorded", Data: logrus.Fields{"asset": "XMR"}})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(b)).To(Equal("lot recorded map[asset:XMR]\n"))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	g := NewGomegaWithT(t)

	_, _, err := newLogger("chatty", "")
	g.Expect(err).To(HaveOccurred())
}

func TestReportCmd(t *testing.T) {
	g := NewGomegaWithT(t)

	dir := t.TempDir()
	inventory := filepath.Join(dir, "inv_final-2019.csv")
	g.Expect(os.WriteFile(inventory, []byte("lot,asset,qty,basis\n2019-11-06,XMR,5,40\n2019-12-02,XMR,5,50\n"), 0o644)).To(Succeed())
	txs := filepath.Join(dir, "localmonero.csv")
	g.Expect(os.WriteFile(txs, []byte("txid;date;type;qty1;asset1;qty2;asset2\nl1;20/02/2020;Sell;7;XMR;450;EUR\n"), 0o644)).To(Succeed())
	out := filepath.Join(dir, "output", "inv_final-2020.csv")
	logFile := filepath.Join(dir, "report.log")

	cmd := &reportCmd{}
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	cmd.SetFlags(fs)
	g.Expect(fs.Parse([]string{"-year", "2020", "-inventory", inventory, "-out", out, "-log-file", logFile, txs})).To(Succeed())
	g.Expect(cmd.Execute(context.Background(), fs)).To(Equal(subcommands.ExitSuccess))

	closing, err := ledger.LoadSnapshot(out)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(closing.TotalQuantity("XMR").String()).To(Equal("3"))

	report, err := os.ReadFile(logFile)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(report)).To(ContainSubstring("Proceeds:   450.00 - Cost:   300.00 - Gain:   150.00"))
	g.Expect(string(report)).To(ContainSubstring("SUMMARY YEAR 2020"))
}

func TestReportCmd_RequiresYear(t *testing.T) {
	g := NewGomegaWithT(t)

	cmd := &reportCmd{}
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	cmd.SetFlags(fs)
	g.Expect(fs.Parse([]string{"txs.csv"})).To(Succeed())
	g.Expect(cmd.Execute(context.Background(), fs)).To(Equal(subcommands.ExitUsageError))
}

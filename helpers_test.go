package ledger_test

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	ledger "github.com/slatteryjim/crypto-tax-lots"
)

const (
	EUR = "EUR"
	BTC = "BTC"
	XMR = "XMR"
)

func d(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// xmrBasket holds 5 XMR @ 40 bought 2019-11-06 and 5 XMR @ 50 bought 2019-12-02.
func xmrBasket() *ledger.LotBasket {
	b, err := ledger.NewLotBasket(XMR,
		ledger.NewLot(d("2019-11-06"), XMR, dec("5"), dec("40")),
		ledger.NewLot(d("2019-12-02"), XMR, dec("5"), dec("50")),
	)
	if err != nil {
		panic(err)
	}
	return b
}

// btcBasket holds 1 BTC @ 10000 bought 2020-12-02.
func btcBasket() *ledger.LotBasket {
	b, err := ledger.NewLotBasket(BTC, ledger.NewLot(d("2020-12-02"), BTC, dec("1"), dec("10000")))
	if err != nil {
		panic(err)
	}
	return b
}

func sampleInventory() *ledger.Inventory {
	inv := ledger.NewInventory()
	inv.AddBasket(xmrBasket())
	inv.AddBasket(btcBasket())
	return inv
}

// lotTuple flattens a lot for comparisons.
type lotTuple struct {
	Date     string
	Asset    string
	Quantity string
	UnitCost string
}

func tuples(lots []*ledger.Lot) []lotTuple {
	out := make([]lotTuple, 0, len(lots))
	for _, lot := range lots {
		out = append(out, lotTuple{
			Date:     lot.Date().Format("2006-01-02"),
			Asset:    lot.Asset(),
			Quantity: lot.Quantity().String(),
			UnitCost: lot.UnitCost().String(),
		})
	}
	return out
}

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	b := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(b)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableQuote: true})
	l.SetLevel(logrus.InfoLevel)
	return l, b
}

package ledger_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	ledger "github.com/slatteryjim/crypto-tax-lots"
)

func TestConsume_FIFOSplitsSecondLot(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := sampleInventory()
	consumed, err := inv.Consume(XMR, dec("7"), ledger.FIFO)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(tuples(consumed.Lots())).To(Equal([]lotTuple{
		{"2019-11-06", XMR, "5", "40"},
		{"2019-12-02", XMR, "2", "50"},
	}))
	g.Expect(consumed.TotalCost().Equal(dec("300"))).To(BeTrue())
	g.Expect(tuples(inv.Basket(XMR).Lots())).To(Equal([]lotTuple{
		{"2019-12-02", XMR, "3", "50"},
	}))
	// other baskets are untouched
	g.Expect(inv.TotalQuantity(BTC).Equal(dec("1"))).To(BeTrue())
}

func TestConsume_LIFOTakesNewestFirst(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := sampleInventory()
	consumed, err := inv.Consume(XMR, dec("7"), ledger.LIFO)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(tuples(consumed.Lots())).To(Equal([]lotTuple{
		{"2019-12-02", XMR, "5", "50"},
		{"2019-11-06", XMR, "2", "40"},
	}))
	g.Expect(consumed.TotalCost().Equal(dec("330"))).To(BeTrue())
	g.Expect(tuples(inv.Basket(XMR).Lots())).To(Equal([]lotTuple{
		{"2019-11-06", XMR, "3", "40"},
	}))
}

func TestConsume_WithinOldestLotLeavesNewerLots(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := sampleInventory()
	consumed, err := inv.Consume(XMR, dec("2.5"), ledger.FIFO)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(tuples(consumed.Lots())).To(Equal([]lotTuple{
		{"2019-11-06", XMR, "2.5", "40"},
	}))
	g.Expect(tuples(inv.Basket(XMR).Lots())).To(Equal([]lotTuple{
		{"2019-11-06", XMR, "2.5", "40"},
		{"2019-12-02", XMR, "5", "50"},
	}))

	inv = sampleInventory()
	consumed, err = inv.Consume(XMR, dec("2.5"), ledger.LIFO)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(tuples(consumed.Lots())).To(Equal([]lotTuple{
		{"2019-12-02", XMR, "2.5", "50"},
	}))
	g.Expect(tuples(inv.Basket(XMR).Lots())).To(Equal([]lotTuple{
		{"2019-11-06", XMR, "5", "40"},
		{"2019-12-02", XMR, "2.5", "50"},
	}))
}

func TestConsume_ExactLotRetiresIt(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := sampleInventory()
	consumed, err := inv.Consume(XMR, dec("5"), ledger.FIFO)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(consumed.Len()).To(Equal(1))
	g.Expect(inv.Basket(XMR).Len()).To(Equal(1))

	consumed, err = inv.Consume(XMR, dec("5"), ledger.FIFO)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(consumed.TotalCost().Equal(dec("250"))).To(BeTrue())
	g.Expect(inv.Basket(XMR).Len()).To(Equal(0))
	g.Expect(inv.Basket(XMR).AverageCost().IsZero()).To(BeTrue())
}

func TestConsume_WholeBasket(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := sampleInventory()
	consumed, err := inv.Consume(XMR, dec("10"), ledger.FIFO)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(consumed.TotalQuantity().Equal(dec("10"))).To(BeTrue())
	g.Expect(consumed.TotalCost().Equal(dec("450"))).To(BeTrue())
	g.Expect(inv.TotalQuantity(XMR).IsZero()).To(BeTrue())
}

func TestConsume_InsufficientInventoryLeavesBasketUnchanged(t *testing.T) {
	g := NewGomegaWithT(t)

	inv := ledger.NewInventory()
	inv.RecordLot(d("2019-11-06"), XMR, dec("5"), dec("40"))
	inv.RecordLot(d("2019-12-02"), XMR, dec("3"), dec("50"))
	before := tuples(inv.Basket(XMR).Lots())

	for _, method := range []ledger.Method{ledger.FIFO, ledger.LIFO} {
		_, err := inv.Consume(XMR, dec("10"), method)
		g.Expect(errors.Is(err, ledger.ErrInsufficientInventory)).To(BeTrue())

		var insufficient *ledger.InsufficientInventoryError
		g.Expect(errors.As(err, &insufficient)).To(BeTrue())
		g.Expect(insufficient.Held.Equal(dec("8"))).To(BeTrue())
		g.Expect(insufficient.Requested.Equal(dec("10"))).To(BeTrue())

		g.Expect(tuples(inv.Basket(XMR).Lots())).To(Equal(before))
	}
}

func TestConsume_UnknownAsset(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := sampleInventory().Consume("ETH", dec("1"), ledger.FIFO)
	g.Expect(errors.Is(err, ledger.ErrInsufficientInventory)).To(BeTrue())
}

func TestConsume_NonPositiveQuantity(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := sampleInventory().Consume(XMR, decimal.Zero, ledger.FIFO)
	g.Expect(errors.Is(err, ledger.ErrInvalidTransaction)).To(BeTrue())
}

func TestConsume_ConservesQuantity(t *testing.T) {
	g := NewGomegaWithT(t)

	for _, method := range []ledger.Method{ledger.FIFO, ledger.LIFO} {
		inv := ledger.NewInventory()
		inv.RecordLot(d("2020-01-01"), BTC, dec("0.12345678"), dec("7000"))
		inv.RecordLot(d("2020-02-01"), BTC, dec("1.5"), dec("8000"))
		inv.RecordLot(d("2020-03-01"), BTC, dec("0.00000001"), dec("9000"))
		inv.RecordLot(d("2020-04-01"), BTC, dec("2.25"), dec("6500"))

		for _, qty := range []string{"0.1", "0.02345678", "1.6", "0.00000001", "0.5", "1.0"} {
			before := inv.TotalQuantity(BTC)
			consumed, err := inv.Consume(BTC, dec(qty), method)
			g.Expect(err).ToNot(HaveOccurred())

			g.Expect(consumed.TotalQuantity().Equal(dec(qty))).To(BeTrue(), "%s %s", method, qty)
			g.Expect(before.Equal(inv.TotalQuantity(BTC).Add(consumed.TotalQuantity()))).To(BeTrue(), "%s %s", method, qty)
		}
		g.Expect(inv.TotalQuantity(BTC).Equal(dec("0.65"))).To(BeTrue())
	}
}

func TestParseMethod(t *testing.T) {
	g := NewGomegaWithT(t)

	m, err := ledger.ParseMethod("fifo")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m).To(Equal(ledger.FIFO))

	m, err = ledger.ParseMethod("LIFO")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m).To(Equal(ledger.LIFO))
	g.Expect(m.String()).To(Equal("LIFO"))

	_, err = ledger.ParseMethod("average")
	g.Expect(err).To(HaveOccurred())
}

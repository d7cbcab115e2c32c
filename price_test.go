package ledger_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	ledger "github.com/slatteryjim/crypto-tax-lots"
)

const priceDB = `; BTC prices
P 2020-01-10 BTC 7232.51 EUR
P 2020/01/11 00:00:00 BTC 7,301.00 EUR
P 2020-01-11 XMR 55.10 EUR

P 2020-01-12 BTC 7400 EUR
`

func TestParsePriceFile(t *testing.T) {
	g := NewGomegaWithT(t)

	o, err := ledger.ParsePriceFile(strings.NewReader(priceDB), BTC)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(o.Asset()).To(Equal(BTC))
	g.Expect(o.Len()).To(Equal(3))

	price, err := o.Price(d("2020-01-11"))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(price.Equal(dec("7301"))).To(BeTrue())

	xmr, err := ledger.ParsePriceFile(strings.NewReader(priceDB), XMR)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(xmr.Len()).To(Equal(1))
}

func TestPriceOracle_ExactDateOnly(t *testing.T) {
	g := NewGomegaWithT(t)

	o := ledger.NewPriceOracle(BTC)
	o.Set(d("2020-01-10"), dec("7000"))
	o.Set(d("2020-01-12"), dec("7200"))

	// time of day is ignored
	price, err := o.Price(d("2020-01-10").Add(18 * time.Hour))
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(price.Equal(dec("7000"))).To(BeTrue())

	// no fallback to an adjacent day
	_, err = o.Price(d("2020-01-11"))
	g.Expect(errors.Is(err, ledger.ErrMissingPrice)).To(BeTrue())
	g.Expect(err.Error()).To(Equal("missing BTC historical price for 2020-01-11"))
}

func TestOracles_UnknownAsset(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := sampleOracles().Price("ETH", d("2020-03-01"))
	g.Expect(errors.Is(err, ledger.ErrMissingPrice)).To(BeTrue())
	g.Expect(sampleOracles().IsValuationAsset(BTC)).To(BeTrue())
	g.Expect(sampleOracles().IsValuationAsset(EUR)).To(BeFalse())
}

func TestParsePriceFile_Malformed(t *testing.T) {
	g := NewGomegaWithT(t)

	for _, db := range []string{
		"P 2020-01-10 BTC\n",
		"P 10/01/2020 BTC 7000 EUR\n",
		"P 2020-01-10 BTC seven EUR\n",
		"P 2020-01-10 BTC -1 EUR\n",
	} {
		_, err := ledger.ParsePriceFile(strings.NewReader(db), BTC)
		g.Expect(err).To(HaveOccurred(), db)
		g.Expect(err.Error()).To(ContainSubstring("line 1"), db)
	}
}

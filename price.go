package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// PriceOracle maps calendar days to the market price of one asset in the base currency.
	// It is read-only once loaded and answers exact-date lookups only.
	PriceOracle struct {
		asset  string
		prices map[time.Time]decimal.Decimal
	}

	// Oracles holds one PriceOracle per swap-valuation asset, keyed by asset symbol.
	Oracles map[string]*PriceOracle
)

// NewPriceOracle creates an empty oracle for asset.
func NewPriceOracle(asset string) *PriceOracle {
	return &PriceOracle{asset: asset, prices: map[time.Time]decimal.Decimal{}}
}

// Asset returns the priced asset.
func (o *PriceOracle) Asset() string { return o.asset }

// Len returns the number of priced days.
func (o *PriceOracle) Len() int { return len(o.prices) }

// Set records the price for the day of date, replacing any previous one.
func (o *PriceOracle) Set(date time.Time, price decimal.Decimal) {
	o.prices[Day(date)] = price
}

// Price returns the price on the exact day of date.
// There is no fallback to an adjacent day: a gap is a *MissingPriceError.
func (o *PriceOracle) Price(date time.Time) (decimal.Decimal, error) {
	price, ok := o.prices[Day(date)]
	if !ok {
		return decimal.Zero, &MissingPriceError{Asset: o.asset, Date: Day(date)}
	}
	return price, nil
}

// Price looks up asset on date in the matching oracle.
func (m Oracles) Price(asset string, date time.Time) (decimal.Decimal, error) {
	o, ok := m[asset]
	if !ok {
		return decimal.Zero, &MissingPriceError{Asset: asset}
	}
	return o.Price(date)
}

// IsValuationAsset reports whether asset has an oracle.
func (m Oracles) IsValuationAsset(asset string) bool {
	_, ok := m[asset]
	return ok
}

// ParsePriceFile reads a ledger-cli price database, e.g.
//
//	P 2020-01-10 BTC 7232.51 EUR
//	P 2020-01-11 00:00:00 BTC 7301.00 EUR
//
// keeping the P directives for asset. Every other line is ignored.
func ParsePriceFile(r io.Reader, asset string) (*PriceOracle, error) {
	o := NewPriceOracle(asset)
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "P" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("price file: line %d: expected P DATE SYMBOL PRICE, got %q", lineNumber, scanner.Text())
		}
		date, err := time.Parse(DateFormat, strings.ReplaceAll(fields[1], "/", "-"))
		if err != nil {
			return nil, fmt.Errorf("price file: line %d: %w", lineNumber, err)
		}
		rest := fields[2:]
		// optional time of day
		if strings.Count(rest[0], ":") == 2 {
			rest = rest[1:]
		}
		if len(rest) < 2 {
			return nil, fmt.Errorf("price file: line %d: expected SYMBOL PRICE, got %q", lineNumber, scanner.Text())
		}
		if rest[0] != asset {
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(rest[1], ",", ""))
		if err != nil {
			return nil, fmt.Errorf("price file: line %d: %w", lineNumber, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("price file: line %d: price must be positive, got %s", lineNumber, price)
		}
		o.Set(date, price)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("price file: %w", err)
	}
	return o, nil
}

// LoadPriceOracle parses the price file at path for asset.
func LoadPriceOracle(path, asset string) (*PriceOracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	o, err := ParsePriceFile(f, asset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

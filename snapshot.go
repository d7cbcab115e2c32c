package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places persisted in a snapshot.
type Precision struct {
	Quantity int32
	Cost     int32
}

// DefaultPrecision keeps quantities and unit costs to the satoshi.
var DefaultPrecision = Precision{Quantity: 8, Cost: 8}

var snapshotHeader = []string{"lot", "asset", "qty", "basis"}

// WriteSnapshot writes every lot of the inventory as a "lot,asset,qty,basis" row,
// baskets in inventory order and lots in basket order.
func WriteSnapshot(w io.Writer, inv *Inventory, p Precision) error {
	c := csv.NewWriter(w)
	if err := c.Write(snapshotHeader); err != nil {
		return err
	}
	for _, asset := range inv.assets {
		for _, lot := range inv.baskets[asset].lots {
			err := c.Write([]string{
				lot.date.Format(DateFormat),
				lot.asset,
				lot.quantity.StringFixed(p.Quantity),
				formatUnitCost(lot.unitCost, p.Cost),
			})
			if err != nil {
				return err
			}
		}
	}
	c.Flush()
	return c.Error()
}

// formatUnitCost rounds cost to places, unless that would round a positive
// cost down to zero, which ReadSnapshot rejects.
func formatUnitCost(cost decimal.Decimal, places int32) string {
	if cost.IsPositive() && !cost.Round(places).IsPositive() {
		return cost.String()
	}
	return cost.StringFixed(places)
}

// ReadSnapshot reads an inventory written by WriteSnapshot. Spaces around keys
// and values are ignored. A row with a malformed field, or a quantity or cost
// that is not positive, fails the whole read.
func ReadSnapshot(r io.Reader) (*Inventory, error) {
	c := csv.NewReader(r)
	c.TrimLeadingSpace = true

	header, err := c.Read()
	if err == io.EOF {
		return NewInventory(), nil
	}
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	missing := lo.Filter(snapshotHeader, func(h string, _ int) bool {
		_, ok := idx[h]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("snapshot header is missing %v", missing)}
	}

	inv := NewInventory()
	for row := 2; ; row++ {
		record, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(name string) string { return strings.TrimSpace(record[idx[name]]) }

		date, err := time.Parse(DateFormat, field("lot"))
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("snapshot row %d: %v", row, err)}
		}
		qty, err := decimal.NewFromString(field("qty"))
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("snapshot row %d: qty: %v", row, err)}
		}
		cost, err := decimal.NewFromString(field("basis"))
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("snapshot row %d: basis: %v", row, err)}
		}
		if !qty.IsPositive() || !cost.IsPositive() {
			return nil, &ValidationError{Reason: fmt.Sprintf("snapshot row %d: quantity and cost must be positive, got %s @ %s", row, qty, cost)}
		}
		asset := field("asset")
		if asset == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("snapshot row %d: missing asset", row)}
		}
		inv.RecordLot(date, asset, qty, cost)
	}
	return inv, nil
}

// LoadSnapshot reads the snapshot file at path.
func LoadSnapshot(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inv, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

// SaveSnapshot writes the inventory to path, creating its directory if needed.
func SaveSnapshot(path string, inv *Inventory, p Precision) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSnapshot(f, inv, p)
}

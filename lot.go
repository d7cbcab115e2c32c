package ledger

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DateFormat is the layout used for lot dates in reports and snapshots.
const DateFormat = "2006-01-02"

type (
	// Lot is a quantity of one asset acquired on a given day at a given unit cost.
	// Only the quantity ever changes, and only when part of the lot is consumed.
	Lot struct {
		// immutable fields
		date     time.Time
		asset    string
		unitCost decimal.Decimal

		// mutable fields
		quantity decimal.Decimal
	}

	// LotBasket is the ordered list of lots held for a single asset.
	// The order is acquisition order: index 0 is the oldest lot.
	LotBasket struct {
		asset string
		lots  []*Lot
	}
)

// NewLot creates a new lot. The date is truncated to its calendar day.
func NewLot(date time.Time, asset string, quantity, unitCost decimal.Decimal) *Lot {
	return &Lot{
		date:     Day(date),
		asset:    asset,
		quantity: quantity,
		unitCost: unitCost,
	}
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (lot *Lot) Date() time.Time           { return lot.date }
func (lot *Lot) Asset() string             { return lot.asset }
func (lot *Lot) Quantity() decimal.Decimal { return lot.quantity }
func (lot *Lot) UnitCost() decimal.Decimal { return lot.unitCost }

// Cost returns quantity times unit cost.
func (lot *Lot) Cost() decimal.Decimal { return lot.quantity.Mul(lot.unitCost) }

// String returns a string describing the lot.
func (lot *Lot) String() string {
	return fmt.Sprintf("%s %s %s @ %s\t(cost:%s)", lot.date.Format(DateFormat), lot.asset,
		lot.quantity.StringFixed(8), lot.unitCost.StringFixed(2), lot.Cost().StringFixed(2))
}

// split removes amount from the lot in place and returns a fragment carrying the same date and unit cost.
// The caller guarantees amount is less than the lot quantity.
func (lot *Lot) split(amount decimal.Decimal) *Lot {
	lot.quantity = lot.quantity.Sub(amount)
	return &Lot{date: lot.date, asset: lot.asset, quantity: amount, unitCost: lot.unitCost}
}

// NewLotBasket creates a basket for asset holding the given lots, in order.
func NewLotBasket(asset string, lots ...*Lot) (*LotBasket, error) {
	b := &LotBasket{asset: asset}
	for _, lot := range lots {
		if err := b.Add(lot); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Asset returns the basket's asset symbol.
func (b *LotBasket) Asset() string { return b.asset }

// Add appends a lot at the end of the basket. The lot must be of the basket's asset.
func (b *LotBasket) Add(lot *Lot) error {
	if lot.asset != b.asset {
		return &ValidationError{Reason: fmt.Sprintf("lot of %s cannot be added to the %s basket", lot.asset, b.asset)}
	}
	b.lots = append(b.lots, lot)
	return nil
}

// Lots returns a copy of the basket's lot list. The lots themselves are shared.
func (b *LotBasket) Lots() []*Lot {
	return append([]*Lot(nil), b.lots...)
}

// Len returns the number of lots.
func (b *LotBasket) Len() int { return len(b.lots) }

// TotalQuantity is the sum of the lot quantities.
func (b *LotBasket) TotalQuantity() decimal.Decimal {
	return lo.Reduce(b.lots, func(sum decimal.Decimal, lot *Lot, _ int) decimal.Decimal {
		return sum.Add(lot.quantity)
	}, decimal.Zero)
}

// TotalCost is the sum of quantity times unit cost over every lot.
func (b *LotBasket) TotalCost() decimal.Decimal {
	return lo.Reduce(b.lots, func(sum decimal.Decimal, lot *Lot, _ int) decimal.Decimal {
		return sum.Add(lot.Cost())
	}, decimal.Zero)
}

// AverageCost is the total cost divided by the total quantity, or zero for an empty basket.
func (b *LotBasket) AverageCost() decimal.Decimal {
	qty := b.TotalQuantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	return b.TotalCost().Div(qty)
}

// String returns a string describing the basket and its lots.
func (b *LotBasket) String() string {
	return fmt.Sprintf("%s %s @ %s %v", b.asset, b.TotalQuantity().StringFixed(8), b.AverageCost().StringFixed(2), b.lots)
}

package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Method selects which lot a disposal consumes first.
type Method int

const (
	// FIFO consumes the oldest lot first.
	FIFO Method = iota
	// LIFO consumes the most recent lot first.
	LIFO
)

// Tolerance bounds the difference between a requested and a consumed quantity.
var Tolerance = decimal.New(1, -8)

func (m Method) String() string {
	switch m {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return "unknown"
	}
}

// ParseMethod parses "FIFO" or "LIFO", ignoring case.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// head returns the index of the next lot to consume.
func (m Method) head(lots []*Lot) int {
	if m == LIFO {
		return len(lots) - 1
	}
	return 0
}

// Consume removes quantity of asset from the inventory, taking lots in method order,
// and returns the consumed fragments as a new basket. Each fragment keeps the date
// and unit cost of the lot it came from.
//
// The held quantity is checked before anything is touched: if it is short,
// an *InsufficientInventoryError is returned and the basket is left as it was.
func (inv *Inventory) Consume(asset string, quantity decimal.Decimal, method Method) (*LotBasket, error) {
	if !quantity.IsPositive() {
		return nil, &InvalidTransactionError{Reason: fmt.Sprintf("cannot consume %s %s", quantity, asset)}
	}
	basket, ok := inv.baskets[asset]
	if !ok {
		return nil, &InsufficientInventoryError{Asset: asset, Requested: quantity, Held: decimal.Zero}
	}
	if held := basket.TotalQuantity(); held.LessThan(quantity) {
		return nil, &InsufficientInventoryError{Asset: asset, Requested: quantity, Held: held}
	}

	var (
		consumed  = &LotBasket{asset: asset}
		remaining = quantity
	)
	for remaining.IsPositive() {
		i := method.head(basket.lots)
		lot := basket.lots[i]

		if lot.quantity.GreaterThan(remaining) {
			// only part of this lot is needed, the rest stays in place
			consumed.lots = append(consumed.lots, lot.split(remaining))
			remaining = decimal.Zero
			break
		}

		// retire the whole lot
		basket.lots = append(basket.lots[:i], basket.lots[i+1:]...)
		consumed.lots = append(consumed.lots, lot)
		remaining = remaining.Sub(lot.quantity)
	}

	if diff := consumed.TotalQuantity().Sub(quantity).Abs(); diff.GreaterThan(Tolerance) {
		panic(fmt.Sprintf("consumed %s %s but %s was requested", consumed.TotalQuantity(), asset, quantity))
	}
	return consumed, nil
}

package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type (
	// Inventory is the book of record of current holdings: one basket per asset.
	Inventory struct {
		baskets map[string]*LotBasket
		// assets keeps baskets in the order they were first created
		assets []string
	}

	// Balance summarizes one asset's holding.
	Balance struct {
		Asset       string
		Quantity    decimal.Decimal
		AverageCost decimal.Decimal
	}
)

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{baskets: map[string]*LotBasket{}}
}

// AddBasket merges a copy of the basket's lots into the inventory. Lots of an
// asset already held are appended after the existing ones. Merging a basket
// the inventory already owns is a no-op.
func (inv *Inventory) AddBasket(b *LotBasket) {
	existing, ok := inv.baskets[b.asset]
	if existing == b {
		return
	}
	lots := lo.Map(b.lots, func(lot *Lot, _ int) *Lot {
		c := *lot
		return &c
	})
	if ok {
		existing.lots = append(existing.lots, lots...)
		return
	}
	inv.baskets[b.asset] = &LotBasket{asset: b.asset, lots: lots}
	inv.assets = append(inv.assets, b.asset)
}

// AddLot appends the lot to its asset's basket, creating the basket if needed.
func (inv *Inventory) AddLot(lot *Lot) {
	b, ok := inv.baskets[lot.asset]
	if !ok {
		b = &LotBasket{asset: lot.asset}
		inv.baskets[lot.asset] = b
		inv.assets = append(inv.assets, lot.asset)
	}
	// cannot fail, the basket is keyed by the lot's asset
	_ = b.Add(lot)
}

// RecordLot creates a lot and appends it at the chronological end of its basket.
func (inv *Inventory) RecordLot(date time.Time, asset string, quantity, unitCost decimal.Decimal) *Lot {
	lot := NewLot(date, asset, quantity, unitCost)
	inv.AddLot(lot)
	return lot
}

// Basket returns the basket for asset, or nil if the asset was never held.
func (inv *Inventory) Basket(asset string) *LotBasket {
	return inv.baskets[asset]
}

// Assets returns the held assets in the order their baskets were created.
func (inv *Inventory) Assets() []string {
	return append([]string(nil), inv.assets...)
}

// HasAsset reports whether a basket exists for asset.
func (inv *Inventory) HasAsset(asset string) bool {
	return lo.Contains(inv.assets, asset)
}

// TotalQuantity returns the held quantity of asset, zero when none is held.
func (inv *Inventory) TotalQuantity(asset string) decimal.Decimal {
	b, ok := inv.baskets[asset]
	if !ok {
		return decimal.Zero
	}
	return b.TotalQuantity()
}

// Balance returns the quantity and average cost of every asset, in basket order.
func (inv *Inventory) Balance() []Balance {
	return lo.Map(inv.assets, func(asset string, _ int) Balance {
		b := inv.baskets[asset]
		return Balance{Asset: asset, Quantity: b.TotalQuantity(), AverageCost: b.AverageCost()}
	})
}

// FormatBalance renders the balance on one line, with average costs in the base currency.
func FormatBalance(balance []Balance, base string) string {
	var sb strings.Builder
	for _, b := range balance {
		fmt.Fprintf(&sb, "%s: ( %8s @ %s %s ) ", b.Asset, b.Quantity.StringFixed(4), b.AverageCost.StringFixed(2), base)
	}
	return sb.String()
}

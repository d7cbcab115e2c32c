package ledger

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type (
	// TaxEvent is a disposal with its proceeds, cost and resulting gain or loss.
	// Trace holds the exact lot fragments that were consumed, which is how the
	// cost was substantiated.
	TaxEvent struct {
		Date     time.Time
		Asset    string
		Quantity decimal.Decimal
		Proceeds decimal.Decimal
		Cost     decimal.Decimal
		Gain     decimal.Decimal
		Trace    *LotBasket
	}

	// TaxLedger accumulates tax events per asset. It is append-only.
	TaxLedger struct {
		events map[string][]TaxEvent
		// assets in the order of their first event
		assets []string
	}

	// AssetSummary aggregates the tax events of one asset.
	AssetSummary struct {
		Asset    string
		Events   int
		Proceeds decimal.Decimal
		Cost     decimal.Decimal
		Gain     decimal.Decimal
	}
)

// NewTaxLedger creates an empty tax ledger.
func NewTaxLedger() *TaxLedger {
	return &TaxLedger{events: map[string][]TaxEvent{}}
}

// Record files a disposal of the consumed fragments for proceeds.
func (l *TaxLedger) Record(date time.Time, asset string, proceeds decimal.Decimal, consumed *LotBasket) TaxEvent {
	cost := consumed.TotalCost()
	event := TaxEvent{
		Date:     Day(date),
		Asset:    asset,
		Quantity: consumed.TotalQuantity(),
		Proceeds: proceeds,
		Cost:     cost,
		Gain:     proceeds.Sub(cost),
		Trace:    consumed,
	}
	if _, ok := l.events[asset]; !ok {
		l.assets = append(l.assets, asset)
	}
	l.events[asset] = append(l.events[asset], event)
	return event
}

// Assets returns the assets with at least one event, in order of their first event.
func (l *TaxLedger) Assets() []string {
	return append([]string(nil), l.assets...)
}

// Events returns the events recorded for asset.
func (l *TaxLedger) Events(asset string) []TaxEvent {
	return append([]TaxEvent(nil), l.events[asset]...)
}

// Len returns the total number of events.
func (l *TaxLedger) Len() int {
	return lo.SumBy(l.assets, func(asset string) int { return len(l.events[asset]) })
}

// YearSummary sums proceeds, cost and gain of every asset's events.
func (l *TaxLedger) YearSummary() []AssetSummary {
	return lo.Map(l.assets, func(asset string, _ int) AssetSummary {
		return summarize(asset, l.events[asset])
	})
}

// Totals sums the year summary over every asset.
func (l *TaxLedger) Totals() AssetSummary {
	return lo.Reduce(l.YearSummary(), func(total AssetSummary, s AssetSummary, _ int) AssetSummary {
		total.Events += s.Events
		total.Proceeds = total.Proceeds.Add(s.Proceeds)
		total.Cost = total.Cost.Add(s.Cost)
		total.Gain = total.Gain.Add(s.Gain)
		return total
	}, AssetSummary{Asset: "Total"})
}

func summarize(asset string, events []TaxEvent) AssetSummary {
	s := AssetSummary{Asset: asset, Events: len(events)}
	for _, e := range events {
		s.Proceeds = s.Proceeds.Add(e.Proceeds)
		s.Cost = s.Cost.Add(e.Cost)
		s.Gain = s.Gain.Add(e.Gain)
	}
	return s
}

// String returns a string describing the event.
func (e TaxEvent) String() string {
	return fmt.Sprintf("%s %s %s: proceeds %s - cost %s = %s", e.Date.Format(DateFormat), e.Asset,
		e.Quantity.StringFixed(8), e.Proceeds.StringFixed(2), e.Cost.StringFixed(2), e.Gain.StringFixed(2))
}

package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type (
	// EngineConfig is the fixed reference data of an Engine.
	EngineConfig struct {
		// Year is the reporting year. Later transactions are left for a future run.
		Year int
		// Method selects FIFO or LIFO lot consumption.
		Method Method
		// Base is the fiat currency every cost and proceed is expressed in, e.g. "EUR".
		Base string
		// Oracles prices the swap-valuation assets.
		Oracles Oracles
		// Logger receives the report narration. Defaults to the logrus standard logger.
		Logger logrus.FieldLogger
	}

	// Engine replays a transaction log against an inventory, recording tax events for the reporting year.
	Engine struct {
		// fixed reference data
		year    int
		method  Method
		base    string
		oracles Oracles
		log     logrus.FieldLogger

		// mutable data
		inventory *Inventory
		taxes     *TaxLedger
		opening   []Balance
		opened    bool
	}
)

// NewEngine creates an engine seeded with the opening inventory, which may be nil.
func NewEngine(cfg EngineConfig, opening *Inventory) (*Engine, error) {
	if cfg.Year <= 0 {
		return nil, fmt.Errorf("invalid reporting year %d", cfg.Year)
	}
	if cfg.Method != FIFO && cfg.Method != LIFO {
		return nil, fmt.Errorf("invalid cost basis method %d", cfg.Method)
	}
	if cfg.Base == "" {
		return nil, fmt.Errorf("missing base currency")
	}
	if cfg.Oracles.IsValuationAsset(cfg.Base) {
		return nil, fmt.Errorf("base currency %s cannot be a valuation asset", cfg.Base)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if opening == nil {
		opening = NewInventory()
	}
	return &Engine{
		year:      cfg.Year,
		method:    cfg.Method,
		base:      cfg.Base,
		oracles:   cfg.Oracles,
		log:       cfg.Logger,
		inventory: opening,
		taxes:     NewTaxLedger(),
	}, nil
}

// Inventory returns the book of record. It reflects every transaction processed so far.
func (e *Engine) Inventory() *Inventory { return e.inventory }

// Taxes returns the tax events recorded for the reporting year.
func (e *Engine) Taxes() *TaxLedger { return e.taxes }

// Opening returns the balance held when the reporting year started.
// It is nil until Process has reached the reporting year.
func (e *Engine) Opening() []Balance { return e.opening }

// SortTransactions returns a copy of txs sorted by date. Same-day transactions keep their order.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := append([]Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Process replays txs in date order. Every transaction up to the end of the
// reporting year updates the inventory; only those dated within the reporting
// year are narrated and produce tax events.
//
// Processing halts on the first failing transaction. Tax results must be complete,
// so nothing is skipped.
func (e *Engine) Process(txs []Transaction) error {
	e.log.Infof("CAPITAL GAINS REPORT ON VIRTUAL CURRENCY TRANSACTIONS - YEAR %d", e.year)
	e.log.Infof("Cost basis method: %s", e.method)

	for n, tx := range SortTransactions(txs) {
		if tx.Date.Year() > e.year {
			break
		}
		if err := e.Apply(n, tx, tx.Date.Year() == e.year); err != nil {
			return fmt.Errorf("transaction %s of %s: %w", tx.ID, tx.Date.Format(DateFormat), err)
		}
	}

	// no transaction in the reporting year: the closing balance of the previous years is the opening one
	e.open()
	return nil
}

func (e *Engine) open() {
	if e.opened {
		return
	}
	e.opened = true
	e.opening = e.inventory.Balance()
	e.log.Infof("Opening inventory: %s", FormatBalance(e.opening, e.base))
}

// Apply processes a single transaction. When reportable, the transaction is
// narrated and any disposal is recorded as a tax event.
//
// The tax event is filed under the asset given up: asset1 for a sale, asset2
// for a buy via swap. The year summary reports a swap disposal under that asset.
func (e *Engine) Apply(n int, tx Transaction, reportable bool) error {
	if reportable {
		e.open()
	}

	effect, err := e.Classify(tx)
	if err != nil {
		return err
	}

	if reportable {
		e.log.Infof("\n*** TX %3d/%02d %s", n, tx.Date.Year()%100, banner)
		e.log.Infof("%s %-4s %s %8s @ %8s for %s %8s", tx.Date.Format("02-01-2006"), tx.Type, tx.Asset1,
			tx.Qty1.StringFixed(4), effect.UnitCost.StringFixed(2), tx.Asset2, tx.Qty2.StringFixed(2))
	}

	var consumed *LotBasket
	if effect.Disposes() {
		consumed, err = e.assignLot(tx.ID, effect.ConsumeAsset, effect.ConsumeQty, reportable)
		if err != nil {
			return err
		}
	}
	if effect.Produces() {
		e.RecordLot(tx.Date, effect.ProduceAsset, effect.ProduceQty, effect.UnitCost)
	}

	if reportable {
		if consumed != nil {
			e.RecordTaxEvent(tx.Date, effect.ConsumeAsset, effect.Income, consumed)
		}
		e.log.Infof("       Inventory: %s", FormatBalance(e.inventory.Balance(), e.base))
	}
	return nil
}

const banner = "******************************************************************"

// Classify computes the effect of tx against the engine's base currency and oracles.
func (e *Engine) Classify(tx Transaction) (Effect, error) {
	return Classify(tx, e.base, e.oracles)
}

// AssignLot consumes quantity of asset from the inventory under the engine's method
// and returns the consumed fragments. txID names the disposal in a rejected
// quantity error.
func (e *Engine) AssignLot(txID, asset string, quantity decimal.Decimal) (*LotBasket, error) {
	return e.assignLot(txID, asset, quantity, false)
}

func (e *Engine) assignLot(txID, asset string, quantity decimal.Decimal, narrate bool) (*LotBasket, error) {
	e.log.WithFields(logrus.Fields{"tx": txID, "asset": asset, "quantity": quantity}).Debug("assigning lots")

	consumed, err := e.inventory.Consume(asset, quantity, e.method)
	var invalid *InvalidTransactionError
	if errors.As(err, &invalid) && invalid.TxID == "" {
		invalid.TxID = txID
	}
	if err != nil {
		return nil, err
	}
	for _, lot := range consumed.lots {
		e.log.WithFields(logrus.Fields{"asset": asset, "lot": lot.date.Format(DateFormat), "quantity": lot.quantity}).Debug("lot assigned")
		if narrate {
			e.log.Infof("  Assign lot %s %8s @ %8s        (%8s )", lot.date.Format("020106"),
				lot.quantity.StringFixed(4), lot.unitCost.StringFixed(2), lot.Cost().StringFixed(2))
		}
	}
	return consumed, nil
}

// RecordLot credits the inventory with a new lot.
func (e *Engine) RecordLot(date time.Time, asset string, quantity, unitCost decimal.Decimal) *Lot {
	lot := e.inventory.RecordLot(date, asset, quantity, unitCost)
	e.log.WithField("lot", lot.String()).Debug("lot recorded")
	return lot
}

// RecordTaxEvent files the disposal of the consumed fragments for proceeds.
func (e *Engine) RecordTaxEvent(date time.Time, asset string, proceeds decimal.Decimal, consumed *LotBasket) TaxEvent {
	event := e.taxes.Record(date, asset, proceeds, consumed)
	e.log.Infof("       Proceeds: %8s - Cost: %8s - Gain: %8s",
		event.Proceeds.StringFixed(2), event.Cost.StringFixed(2), event.Gain.StringFixed(2))
	return event
}

// ReportSummary narrates the year summary table.
func (e *Engine) ReportSummary() {
	for _, line := range SummaryLines(e.year, e.base, e.taxes) {
		e.log.Info(line)
	}
}

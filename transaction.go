package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// TxType is the direction of a transaction relative to Asset1.
	TxType int

	// Transaction is Qty1 of Asset1 exchanged against Qty2 of Asset2.
	// For a Buy Asset1 is acquired, for a Sell it is disposed of.
	// Asset2 is either the base fiat currency or a swap-valuation asset.
	Transaction struct {
		ID     string
		Date   time.Time
		Type   TxType
		Qty1   decimal.Decimal
		Asset1 string
		Qty2   decimal.Decimal
		Asset2 string
	}

	// Shape is the accounting shape of a transaction, resolved once by Classify.
	Shape int

	// Effect is what a transaction does to the inventory and to the tax ledger.
	Effect struct {
		Shape Shape

		// ConsumeAsset is empty when nothing leaves the inventory.
		ConsumeAsset string
		ConsumeQty   decimal.Decimal

		// ProduceAsset is empty when no lot is created.
		ProduceAsset string
		ProduceQty   decimal.Decimal

		// UnitCost is the cost basis of the produced lot.
		// For a sale against fiat it is the informational sale price.
		UnitCost decimal.Decimal

		// Income is the proceeds (or transmission value) of the consumed side.
		Income decimal.Decimal
	}
)

const (
	Buy TxType = iota
	Sell
)

const (
	// BuyForFiat acquires Asset1 paying Qty2 of the base currency.
	BuyForFiat Shape = iota
	// SellForFiat disposes of Asset1 receiving Qty2 of the base currency.
	SellForFiat
	// BuySwap acquires Asset1 giving up Qty2 of the valuation asset Asset2.
	BuySwap
	// SellSwap gives up Asset1 receiving Qty2 of the valuation asset Asset2.
	SellSwap
)

func (t TxType) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "unknown"
	}
}

// ParseTxType parses "Buy" or "Sell", ignoring case.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown transaction type: %q", s)
	}
}

func (s Shape) String() string {
	switch s {
	case BuyForFiat:
		return "buy"
	case SellForFiat:
		return "sell"
	case BuySwap:
		return "buy-swap"
	case SellSwap:
		return "sell-swap"
	default:
		return "unknown"
	}
}

// String returns a one-line description of the transaction.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s %s for %s %s", tx.ID, tx.Date.Format(DateFormat), tx.Type,
		tx.Asset1, tx.Qty1, tx.Asset2, tx.Qty2)
}

// Disposes reports whether the effect takes quantity out of the inventory.
func (e Effect) Disposes() bool { return e.ConsumeAsset != "" }

// Produces reports whether the effect creates a new lot.
func (e Effect) Produces() bool { return e.ProduceAsset != "" }

// ShapeOf resolves the accounting shape from the transaction type and its counter asset.
func ShapeOf(tx Transaction, base string, oracles Oracles) (Shape, error) {
	var swap bool
	switch {
	case tx.Asset2 == base:
	case oracles.IsValuationAsset(tx.Asset2):
		swap = true
	default:
		return 0, &InvalidTransactionError{TxID: tx.ID,
			Reason: fmt.Sprintf("%s is neither the base currency %s nor a valuation asset", tx.Asset2, base)}
	}
	switch tx.Type {
	case Buy:
		if swap {
			return BuySwap, nil
		}
		return BuyForFiat, nil
	case Sell:
		if swap {
			return SellSwap, nil
		}
		return SellForFiat, nil
	default:
		return 0, &InvalidTransactionError{TxID: tx.ID, Reason: fmt.Sprintf("unsupported type %s", tx.Type)}
	}
}

// Classify computes the effect of tx. It performs no mutation, so a failure
// here leaves the inventory untouched.
//
// Direct swaps between two non-fiat assets are valued at the transmission value
//
//	VT = max(price(Asset2) * Qty2, price(Asset1) * Qty1)
//
// which becomes both the income of the given-up side and the cost of the received lot.
func Classify(tx Transaction, base string, oracles Oracles) (Effect, error) {
	if !tx.Qty1.IsPositive() || !tx.Qty2.IsPositive() {
		return Effect{}, &InvalidTransactionError{TxID: tx.ID,
			Reason: fmt.Sprintf("quantities must be positive, got %s %s and %s %s", tx.Qty1, tx.Asset1, tx.Qty2, tx.Asset2)}
	}
	if tx.Asset1 == tx.Asset2 {
		return Effect{}, &InvalidTransactionError{TxID: tx.ID, Reason: "cannot exchange " + tx.Asset1 + " for itself"}
	}
	shape, err := ShapeOf(tx, base, oracles)
	if err != nil {
		return Effect{}, err
	}

	switch shape {
	case BuyForFiat:
		return Effect{
			Shape:        shape,
			ProduceAsset: tx.Asset1,
			ProduceQty:   tx.Qty1,
			UnitCost:     tx.Qty2.Div(tx.Qty1),
			Income:       decimal.Zero,
		}, nil

	case SellForFiat:
		return Effect{
			Shape:        shape,
			ConsumeAsset: tx.Asset1,
			ConsumeQty:   tx.Qty1,
			UnitCost:     tx.Qty2.Div(tx.Qty1),
			Income:       tx.Qty2,
		}, nil

	case BuySwap:
		vt, err := transmissionValue(tx, oracles)
		if err != nil {
			return Effect{}, err
		}
		return Effect{
			Shape:        shape,
			ConsumeAsset: tx.Asset2,
			ConsumeQty:   tx.Qty2,
			ProduceAsset: tx.Asset1,
			ProduceQty:   tx.Qty1,
			UnitCost:     vt.Div(tx.Qty1),
			Income:       vt,
		}, nil

	case SellSwap:
		vt, err := transmissionValue(tx, oracles)
		if err != nil {
			return Effect{}, err
		}
		return Effect{
			Shape:        shape,
			ConsumeAsset: tx.Asset1,
			ConsumeQty:   tx.Qty1,
			ProduceAsset: tx.Asset2,
			ProduceQty:   tx.Qty2,
			UnitCost:     vt.Div(tx.Qty2),
			Income:       vt,
		}, nil
	}
	return Effect{}, &InvalidTransactionError{TxID: tx.ID, Reason: "unsupported shape " + shape.String()}
}

// transmissionValue is the greater of the market values of both legs on the transaction day.
func transmissionValue(tx Transaction, oracles Oracles) (decimal.Decimal, error) {
	price1, err := oracles.Price(tx.Asset1, tx.Date)
	if err != nil {
		return decimal.Zero, err
	}
	price2, err := oracles.Price(tx.Asset2, tx.Date)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(price2.Mul(tx.Qty2), price1.Mul(tx.Qty1)), nil
}

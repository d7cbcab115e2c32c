package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxDateFormat is the day/month/year layout of transaction files.
const TxDateFormat = "02/01/2006"

var txHeader = []string{"txid", "date", "type", "qty1", "asset1", "qty2", "asset2"}

// ReadTransactions reads a ";" delimited transaction file with the header
// txid;date;type;qty1;asset1;qty2;asset2. The result is in file order.
func ReadTransactions(r io.Reader) ([]Transaction, error) {
	c := csv.NewReader(r)
	c.Comma = ';'
	c.TrimLeadingSpace = true

	header, err := c.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range txHeader {
		if _, ok := idx[h]; !ok {
			return nil, fmt.Errorf("transaction header is missing %q", h)
		}
	}

	var txs []Transaction
	for row := 2; ; row++ {
		record, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(name string) string { return strings.TrimSpace(record[idx[name]]) }

		tx, err := parseTransaction(field)
		if err != nil {
			return nil, &InvalidTransactionError{TxID: field("txid"), Reason: fmt.Sprintf("row %d: %v", row, err)}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseTransaction(field func(string) string) (Transaction, error) {
	date, err := time.Parse(TxDateFormat, field("date"))
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTxType(field("type"))
	if err != nil {
		return Transaction{}, err
	}
	qty1, err := decimal.NewFromString(field("qty1"))
	if err != nil {
		return Transaction{}, fmt.Errorf("qty1: %w", err)
	}
	qty2, err := decimal.NewFromString(field("qty2"))
	if err != nil {
		return Transaction{}, fmt.Errorf("qty2: %w", err)
	}
	return Transaction{
		ID:     field("txid"),
		Date:   date,
		Type:   typ,
		Qty1:   qty1,
		Asset1: field("asset1"),
		Qty2:   qty2,
		Asset2: field("asset2"),
	}, nil
}

// ReadTransactionFiles reads every file and returns all transactions sorted by date.
func ReadTransactionFiles(paths ...string) ([]Transaction, error) {
	var all []Transaction
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		txs, err := ReadTransactions(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, txs...)
	}
	return SortTransactions(all), nil
}

package wallet

import (
	"fmt"
	"time"

	"github.com/gpwtool/gpwmon/internal/parser"
	"github.com/gpwtool/gpwmon/internal/table"
)

// Load reads a broker transaction-history dump and returns a wallet holding
// its rows. Buy rows (K) enter as positive amounts, sells (S) as negative.
func Load(path string) (*Wallet, error) {
	t, err := (&parser.TransactionCSV{}).Parse(path)
	if err != nil {
		return nil, err
	}
	return FromTable(t)
}

// FromTable converts parsed transaction rows into a wallet.
func FromTable(t *table.Table) (*Wallet, error) {
	w := New()
	for i, row := range t.Rows {
		trans, err := rowTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("transaction row %d: %w", i+1, err)
		}
		if err := w.Add(trans); err != nil {
			return nil, fmt.Errorf("transaction row %d: %w", i+1, err)
		}
	}
	return w, nil
}

func rowTransaction(row table.Row) (Transaction, error) {
	if len(row) != 11 {
		return Transaction{}, fmt.Errorf("%w: %d cells", ErrInvalidInput, len(row))
	}
	ts, ok := row[0].(time.Time)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: bad timestamp cell", ErrInvalidInput)
	}
	name, _ := row[1].(string)
	side, _ := row[3].(string)
	amount, ok := row[4].(int64)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: bad amount cell", ErrInvalidInput)
	}
	unitPrice, ok := row[5].(float64)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: bad unit price cell", ErrInvalidInput)
	}

	signed := float64(amount)
	switch side {
	case "K":
	case "S":
		signed = -signed
	default:
		return Transaction{}, fmt.Errorf("%w: side %q", ErrInvalidInput, side)
	}

	var commission float64
	if c, ok := row[7].(float64); ok {
		commission = c
	}
	currency, _ := row[10].(string)

	return Transaction{
		Ticker:     name,
		Amount:     signed,
		UnitPrice:  unitPrice,
		Time:       ts,
		Commission: commission,
		Currency:   currency,
	}, nil
}

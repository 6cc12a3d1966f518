// Package wallet keeps an ordered transaction log per ticker and derives
// current holdings and realized sell profits under a selectable lot-matching
// policy. Commissions are folded into effective unit prices on both legs.
package wallet

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gpwtool/gpwmon/internal/table"
)

// ErrInvalidInput marks transactions the engine refuses to record.
var ErrInvalidInput = errors.New("invalid wallet input")

// Transaction is one buy (positive Amount) or sell (negative Amount).
type Transaction struct {
	Ticker     string
	Amount     float64
	UnitPrice  float64
	Time       time.Time
	Commission float64
	Currency   string
}

// Wallet is an append-only transaction log grouped by ticker. Not safe for
// concurrent use.
type Wallet struct {
	transactions map[string][]Transaction
}

func New() *Wallet {
	return &Wallet{transactions: make(map[string][]Transaction)}
}

// Add records a transaction. Zero amounts and negative commissions are
// rejected; over-selling is not, a short position simply shows up as a
// negative remaining amount.
func (w *Wallet) Add(t Transaction) error {
	if t.Amount == 0 {
		return fmt.Errorf("%w: zero amount for %s", ErrInvalidInput, t.Ticker)
	}
	if t.Commission < 0 {
		return fmt.Errorf("%w: negative commission for %s", ErrInvalidInput, t.Ticker)
	}
	if t.Ticker == "" {
		return fmt.Errorf("%w: empty ticker", ErrInvalidInput)
	}
	w.transactions[t.Ticker] = append(w.transactions[t.Ticker], t)
	return nil
}

// Tickers returns the recorded tickers in sorted order.
func (w *Wallet) Tickers() []string {
	names := make([]string, 0, len(w.transactions))
	for name := range w.transactions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sorted returns a time-ordered copy of a ticker's log. The sort is stable so
// same-timestamp transactions keep insertion order.
func (w *Wallet) sorted(ticker string) []Transaction {
	src := w.transactions[ticker]
	out := make([]Transaction, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// lot is an open buy with some units not yet consumed by a sell.
type lot struct {
	seq       int
	time      time.Time
	remaining float64
	unitCost  float64 // commission-inclusive
}

// Match is one sell leg attributed to one buy lot.
type Match struct {
	Ticker      string
	SellTime    time.Time
	BuyTime     time.Time
	Quantity    float64
	BuyUnitCost float64
	SellUnitNet float64
	Profit      float64
}

// Position is the derived state of one ticker.
type Position struct {
	Ticker    string
	Remaining float64
	// UnitCost is the average commission-inclusive cost of the remaining
	// units. For a short position it is the average net proceeds still
	// owed cover.
	UnitCost float64
	Realized float64
	Matches  []Match
}

// buyUnitCost folds the commission into the per-unit price of a buy.
func buyUnitCost(t Transaction) float64 {
	q := t.Amount
	return (q*t.UnitPrice + t.Commission) / q
}

// sellUnitNet folds the commission out of the per-unit proceeds of a sell.
func sellUnitNet(t Transaction) float64 {
	q := -t.Amount
	return (q*t.UnitPrice - t.Commission) / q
}

// pick returns the index of the open lot the mode consumes next.
func pick(mode MatchMode, lots []lot) int {
	switch mode {
	case LIFO:
		best := 0
		for i := range lots {
			if lots[i].seq >= lots[best].seq {
				best = i
			}
		}
		return best
	case Best:
		best := 0
		for i := 1; i < len(lots); i++ {
			if lots[i].unitCost > lots[best].unitCost {
				best = i
			}
		}
		return best
	default: // FIFO
		return 0
	}
}

// PositionOf derives the position of one ticker under the given mode.
func (w *Wallet) PositionOf(ticker string, mode MatchMode) Position {
	pos := Position{Ticker: ticker}

	var lots []lot
	var short float64    // units sold beyond holdings
	var shortNet float64 // net proceeds booked against the short units

	for seq, t := range w.sorted(ticker) {
		if t.Amount > 0 {
			lots = append(lots, lot{
				seq:       seq,
				time:      t.Time,
				remaining: t.Amount,
				unitCost:  buyUnitCost(t),
			})
			continue
		}

		qty := -t.Amount
		net := sellUnitNet(t)
		for qty > 0 && len(lots) > 0 {
			i := pick(mode, lots)
			matched := qty
			if lots[i].remaining < matched {
				matched = lots[i].remaining
			}
			profit := (net - lots[i].unitCost) * matched
			pos.Realized += profit
			pos.Matches = append(pos.Matches, Match{
				Ticker:      ticker,
				SellTime:    t.Time,
				BuyTime:     lots[i].time,
				Quantity:    matched,
				BuyUnitCost: lots[i].unitCost,
				SellUnitNet: net,
				Profit:      profit,
			})
			lots[i].remaining -= matched
			qty -= matched
			if lots[i].remaining == 0 {
				lots = append(lots[:i], lots[i+1:]...)
			}
		}
		if qty > 0 {
			short += qty
			shortNet += qty * net
		}
	}

	for _, l := range lots {
		pos.Remaining += l.remaining
		pos.UnitCost += l.remaining * l.unitCost
	}
	pos.Remaining -= short
	pos.UnitCost -= shortNet
	if pos.Remaining != 0 {
		pos.UnitCost /= pos.Remaining
	} else {
		pos.UnitCost = 0
	}
	return pos
}

// CurrentItems lists every ticker with a non-zero remaining amount, with its
// average effective unit cost.
func (w *Wallet) CurrentItems(mode MatchMode) *table.Table {
	out := table.New("ticker", "amount", "unit_cost")
	for _, ticker := range w.Tickers() {
		pos := w.PositionOf(ticker, mode)
		if pos.Remaining == 0 {
			continue
		}
		out.Append(ticker, pos.Remaining, pos.UnitCost)
	}
	return out
}

// SellTransactions lists every realized match across the wallet, ordered by
// ticker then sell time.
func (w *Wallet) SellTransactions(mode MatchMode) *table.Table {
	out := table.New("ticker", "sell_time", "buy_time", "amount",
		"buy_unit_cost", "sell_unit_net", "profit")
	for _, ticker := range w.Tickers() {
		for _, m := range w.PositionOf(ticker, mode).Matches {
			out.Append(m.Ticker, m.SellTime, m.BuyTime, m.Quantity,
				m.BuyUnitCost, m.SellUnitNet, m.Profit)
		}
	}
	return out
}

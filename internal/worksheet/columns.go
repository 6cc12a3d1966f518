// Package worksheet orchestrates storage, downloading, and parsing into
// cached in-memory tables, and exposes a query API keyed by semantic column
// names so callers never hard-code physical layouts.
package worksheet

import "fmt"

// Column is a source-independent name for a column role.
type Column int

const (
	ColTicker Column = iota
	ColISIN
	ColStockName
	ColFullName
	ColCurrency
	ColOpening
	ColMin
	ColMax
	ColClosing
	ColChange
	ColReference
	ColRecentTrans
	ColRecentTransTime
	ColChangeToRef
	ColVolume
	ColTransactions
	ColTrading
	ColDate
	ColNoDivDay
)

var columnNames = map[Column]string{
	ColTicker:          "TICKER",
	ColISIN:            "ISIN",
	ColStockName:       "STOCK_NAME",
	ColFullName:        "FULL_NAME",
	ColCurrency:        "CURRENCY",
	ColOpening:         "OPENING",
	ColMin:             "MIN",
	ColMax:             "MAX",
	ColClosing:         "CLOSING",
	ColChange:          "CHANGE",
	ColReference:       "REFERENCE",
	ColRecentTrans:     "RECENT_TRANS",
	ColRecentTransTime: "RECENT_TRANS_TIME",
	ColChangeToRef:     "CHANGE_TO_REF",
	ColVolume:          "VOLUME",
	ColTransactions:    "TRANSACTIONS",
	ColTrading:         "TRADING",
	ColDate:            "DATE",
	ColNoDivDay:        "NO_DIV_DAY",
}

func (c Column) String() string {
	if name, ok := columnNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// ColumnMap is a source's partial mapping from semantic column to physical
// index in its parsed table.
type ColumnMap map[Column]int

// InvalidColumnError reports a query against a semantic column the source
// does not expose. It indicates a programming error at the call site.
type InvalidColumnError struct {
	Column Column
	Source string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("source %s does not expose column %s", e.Source, e.Column)
}

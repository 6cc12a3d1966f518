// Package gpw declares the Warsaw Stock Exchange sources: their URLs, cache
// locations, parsers, and semantic column layouts. Page layouts live here and
// nowhere else; everything downstream works through semantic columns.
package gpw

import (
	"fmt"
	"time"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/parser"
	"github.com/gpwtool/gpwmon/internal/storage"
	"github.com/gpwtool/gpwmon/internal/worksheet"
)

const (
	gpwBase     = "https://www.gpw.pl"
	espiBase    = "https://espiebi.pap.pl"
	intradayURL = "https://stooq.pl/db/d/?t=5"

	cacheFamily = "gpw"
)

// urlDateFormat is how the exchange encodes dates in query strings.
const urlDateFormat = "02-01-2006"

// staticSource covers sources fully described by fixed fields.
type staticSource struct {
	name   string
	url    string
	path   storage.DataPath
	parse  parser.Parser
	colMap worksheet.ColumnMap
}

func (s *staticSource) Name() string                 { return s.name }
func (s *staticSource) URL() string                  { return s.url }
func (s *staticSource) DataPath() storage.DataPath   { return s.path }
func (s *staticSource) Parser() parser.Parser        { return s.parse }
func (s *staticSource) Columns() worksheet.ColumnMap { return s.colMap }

// quoteColumns is the layout shared by the continuous-quotation pages.
var quoteColumns = worksheet.ColumnMap{
	worksheet.ColStockName:   0,
	worksheet.ColISIN:        1,
	worksheet.ColTicker:      2,
	worksheet.ColCurrency:    3,
	worksheet.ColOpening:     4,
	worksheet.ColMin:         5,
	worksheet.ColMax:         6,
	worksheet.ColRecentTrans: 7,
	worksheet.ColClosing:     7, // the most recent transaction is the working close
	worksheet.ColChangeToRef: 8,
	worksheet.ColVolume:      9,
}

// quoteConverters normalizes the numeric columns of a quotation table.
var quoteConverters = map[int]convert.CellFunc{
	4: convert.ToFloat,
	5: convert.ToFloat,
	6: convert.ToFloat,
	7: convert.ToFloat,
	8: convert.ToPercentage,
	9: convert.ToInt,
}

// Stocks is the main-market continuous quotation table.
func Stocks() worksheet.Source {
	return &staticSource{
		name: "stocks",
		url:  gpwBase + "/akcje",
		path: storage.DataPath{Family: cacheFamily, Key: "stocks", Ext: ".html"},
		parse: &parser.HTMLTable{
			Index:      1,
			Converters: quoteConverters,
		},
		colMap: quoteColumns,
	}
}

// NewConnect is the alternative-market quotation table.
func NewConnect() worksheet.Source {
	return &staticSource{
		name: "newconnect",
		url:  gpwBase + "/akcje-newconnect",
		path: storage.DataPath{Family: cacheFamily, Key: "newconnect", Ext: ".html"},
		parse: &parser.HTMLTable{
			Index:      1,
			Converters: quoteConverters,
		},
		colMap: quoteColumns,
	}
}

// Indices is the index quotation table.
func Indices() worksheet.Source {
	return &staticSource{
		name: "indices",
		url:  gpwBase + "/indeksy",
		path: storage.DataPath{Family: cacheFamily, Key: "indices", Ext: ".html"},
		parse: &parser.HTMLTable{
			Index: 0,
			Converters: map[int]convert.CellFunc{
				1: convert.ToFloat,
				2: convert.ToPercentage,
				3: convert.ToInt,
			},
		},
		colMap: worksheet.ColumnMap{
			worksheet.ColStockName:   0,
			worksheet.ColClosing:     1,
			worksheet.ColChangeToRef: 2,
			worksheet.ColVolume:      3,
		},
	}
}

// archiveColumns is the daily archive workbook layout.
var archiveColumns = worksheet.ColumnMap{
	worksheet.ColDate:         0,
	worksheet.ColStockName:    1,
	worksheet.ColISIN:         2,
	worksheet.ColCurrency:     3,
	worksheet.ColOpening:      4,
	worksheet.ColMax:          5,
	worksheet.ColMin:          6,
	worksheet.ColClosing:      7,
	worksheet.ColChange:       8,
	worksheet.ColVolume:       9,
	worksheet.ColTransactions: 10,
	worksheet.ColTrading:      11,
}

// Archive is the end-of-day quotation workbook for one session date.
func Archive(day time.Time) worksheet.Source {
	key := "archive_" + day.Format("2006-01-02")
	return &staticSource{
		name: key,
		url: fmt.Sprintf("%s/archiwum-notowan?fetch=1&type=10&instrument=&date=%s",
			gpwBase, day.Format(urlDateFormat)),
		path: storage.DataPath{Family: cacheFamily, Key: key, Ext: ".xls"},
		parse: &parser.XLSWorkbook{
			HeaderRows: 1,
			Converters: map[int]convert.CellFunc{
				4:  convert.ToFloat,
				5:  convert.ToFloat,
				6:  convert.ToFloat,
				7:  convert.ToFloat,
				8:  convert.ToPercentage,
				9:  convert.ToInt,
				10: convert.ToInt,
				11: convert.ToFloat,
			},
		},
		colMap: archiveColumns,
	}
}

// intradayColumns matches parser.IntradayPRN output.
var intradayColumns = worksheet.ColumnMap{
	worksheet.ColTicker:  0,
	worksheet.ColDate:    1,
	worksheet.ColOpening: 2,
	worksheet.ColMax:     3,
	worksheet.ColMin:     4,
	worksheet.ColClosing: 5,
	worksheet.ColVolume:  6,
}

// Intraday is the 5-minute candle dump for one session date.
func Intraday(day time.Time) worksheet.Source {
	key := "intraday_" + day.Format("2006-01-02")
	return &staticSource{
		name:   key,
		url:    fmt.Sprintf("%s&d=%s", intradayURL, day.Format("20060102")),
		path:   storage.DataPath{Family: cacheFamily, Key: key, Ext: ".prn"},
		parse:  &parser.IntradayPRN{},
		colMap: intradayColumns,
	}
}

// espiColumns matches the [name, isin, date, title, url] list layout.
var espiColumns = worksheet.ColumnMap{
	worksheet.ColStockName: 0,
	worksheet.ColISIN:      1,
	worksheet.ColDate:      2,
}

// ESPI is one page of the exchange-notification feed.
func ESPI(page, limit int) worksheet.Source {
	key := fmt.Sprintf("espi_p%d", page)
	return &staticSource{
		name:   key,
		url:    fmt.Sprintf("%s/espi?limit=%d&page=%d", espiBase, limit, page),
		path:   storage.DataPath{Family: cacheFamily, Key: key, Ext: ".html"},
		parse:  &parser.HTMLList{BaseURL: espiBase, ItemSelector: "li"},
		colMap: espiColumns,
	}
}

// ESPIFeed is the RSS rendering of the notification stream, used when the
// HTML layout shifts.
func ESPIFeed() worksheet.Source {
	return &staticSource{
		name:   "espi_feed",
		url:    espiBase + "/rss.xml",
		path:   storage.DataPath{Family: cacheFamily, Key: "espi_feed", Ext: ".xml"},
		parse:  &parser.RSSList{},
		colMap: espiColumns,
	}
}

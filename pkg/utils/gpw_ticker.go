package utils

import (
	"strings"
)

// Common GPW ticker aliases and normalizations. Broker dumps and exchange
// pages occasionally use different names for the same instrument.
var tickerAliases = map[string]string{
	"XTRADEBDM":   "XTB",
	"X-TRADE":     "XTB",
	"CELONPHARMA": "CLNPHARMA",
	"CELON":       "CLNPHARMA",
	"PKOBP":       "PKO",
	"PKO BP":      "PKO",
	"PKNORLEN":    "PKN",
	"ORLEN":       "PKN",
	"KGHM POLSKA": "KGH",
	"CD PROJEKT":  "CDR",
	"CDPROJEKT":   "CDR",
	"ALLEGRO.EU":  "ALE",
}

// GPW index tickers.
var indexTickers = map[string]string{
	"WIG":       "WIG",
	"WIG20":     "WIG20",
	"WIG 20":    "WIG20",
	"WIG30":     "WIG30",
	"MWIG40":    "mWIG40",
	"SWIG80":    "sWIG80",
	"WIG-BANKI": "WIG-BANKI",
	"NCINDEX":   "NCIndex",
}

// NormalizeTicker normalizes a user-input ticker to the canonical GPW format.
// It handles aliases, uppercasing, and whitespace.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")

	if idx, ok := indexTickers[ticker]; ok {
		return idx
	}
	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// IsIndex checks if the ticker is an index (not a stock).
func IsIndex(ticker string) bool {
	ticker = NormalizeTicker(ticker)
	for _, v := range indexTickers {
		if v == ticker {
			return true
		}
	}
	return false
}

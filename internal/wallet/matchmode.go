package wallet

import (
	"fmt"
	"strings"
)

// MatchMode selects which prior buys a sell is attributed to.
type MatchMode int

const (
	// FIFO consumes the oldest open buys first.
	FIFO MatchMode = iota
	// LIFO consumes the newest open buys first.
	LIFO
	// Best consumes the open buy with the highest effective unit cost
	// first, which minimizes the reported gain.
	Best
)

var matchModeNames = map[MatchMode]string{
	FIFO: "FIFO",
	LIFO: "LIFO",
	Best: "BEST",
}

func (m MatchMode) String() string {
	if name, ok := matchModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MatchMode(%d)", int(m))
}

// ParseMatchMode converts a case-insensitive mode name to a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	for mode, name := range matchModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return FIFO, fmt.Errorf("unknown match mode %q", s)
}

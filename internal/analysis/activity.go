package analysis

import (
	"math"
	"sort"

	"github.com/gpwtool/gpwmon/internal/table"
)

// minActivityBars is the smallest candle count for which the activity
// measures are meaningful; thinner names are dropped.
const minActivityBars = 5

// intraday candle column indices, matching the intraday parser output.
const (
	candleName = iota
	candleDate
	candleOpen
	candleHigh
	candleLow
	candleClose
	candleVolume
)

// Activity scores every name of an intraday candle table by how often its
// bars move. threshold is the relative open-to-close change above which a
// bar counts as directional. The result is a
// [name, activity, price_activity, change_sum, change_var] table sorted by
// activity in descending order.
func Activity(t *table.Table, threshold float64) *table.Table {
	type bars struct {
		total   int
		active  int
		changes []float64
	}
	byName := make(map[string]*bars)

	for _, row := range t.Rows {
		name, ok := cellString(row, candleName)
		if !ok {
			continue
		}
		open, okO := cellFloat(row, candleOpen)
		cls, okC := cellFloat(row, candleClose)
		if !okO || !okC || open == 0 {
			continue
		}
		b := byName[name]
		if b == nil {
			b = &bars{}
			byName[name] = b
		}
		b.total++
		change := (cls - open) / open
		b.changes = append(b.changes, change)
		if math.Abs(change) > threshold {
			b.active++
		}
	}

	type score struct {
		name     string
		activity float64
		active   int
		sum, v   float64
	}
	scores := make([]score, 0, len(byName))
	for name, b := range byName {
		if b.total < minActivityBars {
			continue
		}
		sum := 0.0
		for _, c := range b.changes {
			sum += c
		}
		mean := sum / float64(b.total)
		variance := 0.0
		for _, c := range b.changes {
			variance += (c - mean) * (c - mean)
		}
		variance /= float64(b.total)
		scores = append(scores, score{
			name:     name,
			activity: float64(b.active) / float64(b.total),
			active:   b.active,
			sum:      sum,
			v:        variance,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].activity != scores[j].activity {
			return scores[i].activity > scores[j].activity
		}
		return scores[i].name < scores[j].name
	})

	out := table.New("name", "activity", "price_activity", "change_sum", "change_var")
	for _, s := range scores {
		out.Append(s.name, s.activity, int64(s.active), s.sum, s.v)
	}
	return out
}

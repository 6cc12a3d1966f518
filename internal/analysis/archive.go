// Package analysis builds derived statistics on top of the worksheet query
// API: date-range folds over the daily archive and an activity measure over
// intraday candles.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gpwtool/gpwmon/internal/calendar"
	"github.com/gpwtool/gpwmon/internal/gpw"
	"github.com/gpwtool/gpwmon/internal/table"
	"github.com/gpwtool/gpwmon/internal/worksheet"
)

// ArchiveDataType names the numeric archive columns a range fold can target.
type ArchiveDataType int

const (
	Opening ArchiveDataType = iota
	Max
	Min
	Closing
	Change
	Volume
	Transactions
	Trading
)

var archiveDataTypes = map[ArchiveDataType]struct {
	name string
	col  worksheet.Column
}{
	Opening:      {"OPENING", worksheet.ColOpening},
	Max:          {"MAX", worksheet.ColMax},
	Min:          {"MIN", worksheet.ColMin},
	Closing:      {"CLOSING", worksheet.ColClosing},
	Change:       {"CHANGE", worksheet.ColChange},
	Volume:       {"VOLUME", worksheet.ColVolume},
	Transactions: {"TRANSACTIONS", worksheet.ColTransactions},
	Trading:      {"TRADING", worksheet.ColTrading},
}

func (d ArchiveDataType) String() string {
	if e, ok := archiveDataTypes[d]; ok {
		return e.name
	}
	return fmt.Sprintf("ArchiveDataType(%d)", int(d))
}

// Column returns the semantic archive column the type reads.
func (d ArchiveDataType) Column() worksheet.Column {
	return archiveDataTypes[d].col
}

// ParseArchiveDataType converts a case-insensitive name to a data type.
func ParseArchiveDataType(s string) (ArchiveDataType, error) {
	for d, e := range archiveDataTypes {
		if strings.EqualFold(s, e.name) {
			return d, nil
		}
	}
	return Closing, fmt.Errorf("unknown archive data type %q", s)
}

// StatKind selects the fold emitted by RangeArchiveStat.
type StatKind int

const (
	StatMin StatKind = iota
	StatMax
	StatSum
	StatVariance
)

var statKindNames = map[StatKind]string{
	StatMin:      "MIN",
	StatMax:      "MAX",
	StatSum:      "SUM",
	StatVariance: "VARIANCE",
}

func (k StatKind) String() string {
	if name, ok := statKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StatKind(%d)", int(k))
}

// ParseStatKind converts a case-insensitive name to a stat kind.
func ParseStatKind(s string) (StatKind, error) {
	for k, name := range statKindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return StatMin, fmt.Errorf("unknown stat %q", s)
}

// accumulator folds one name's observations with Welford's variance update.
type accumulator struct {
	count    int
	min, max float64
	sum      float64
	mean, m2 float64
}

func (a *accumulator) add(v float64) {
	a.count++
	if a.count == 1 || v < a.min {
		a.min = v
	}
	if a.count == 1 || v > a.max {
		a.max = v
	}
	a.sum += v
	delta := v - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (v - a.mean)
}

func (a *accumulator) value(kind StatKind) float64 {
	switch kind {
	case StatMax:
		return a.max
	case StatSum:
		return a.sum
	case StatVariance:
		if a.count < 2 {
			return 0
		}
		return a.m2 / float64(a.count)
	default:
		return a.min
	}
}

// RangeArchiveStat folds one archive column over every trading day in
// [from, to]. Holidays are skipped up front; days whose workbook turns out to
// be missing are skipped as well and taught to the calendar. The result is a
// [name, <stat>] table sorted by the statistic in descending order.
func RangeArchiveStat(ctx context.Context, reg *worksheet.Registry, cal *calendar.Calendar,
	from, to time.Time, data ArchiveDataType, kind StatKind, concurrency int) (*table.Table, error) {

	if to.Before(from) {
		return nil, fmt.Errorf("empty date range %s..%s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	acc := make(map[string]*accumulator)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if cal.IsHoliday(day) {
			continue
		}
		day := day
		g.Go(func() error {
			dao := reg.DAO(gpw.Archive(day))
			t, err := dao.Load(ctx, false)
			if err != nil {
				log.Warn().Err(err).Str("date", day.Format("2006-01-02")).
					Msg("skipping unavailable archive day")
				return nil
			}
			if t == nil {
				// No workbook published means no session.
				cal.MarkHoliday(day)
				return nil
			}
			foldDay(&mu, acc, dao, t, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return statTable(acc, kind), nil
}

// foldDay feeds one day's column into the shared accumulators.
func foldDay(mu *sync.Mutex, acc map[string]*accumulator,
	dao *worksheet.DAO, t *table.Table, data ArchiveDataType) {

	nameIdx, err := dao.ColumnIndex(worksheet.ColStockName)
	if err != nil {
		log.Warn().Err(err).Msg("archive source without a name column")
		return
	}
	valIdx, err := dao.ColumnIndex(data.Column())
	if err != nil {
		log.Warn().Err(err).Msg("archive source without the requested column")
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for _, row := range t.Rows {
		name, ok := cellString(row, nameIdx)
		if !ok {
			continue
		}
		v, ok := cellFloat(row, valIdx)
		if !ok {
			continue
		}
		a := acc[name]
		if a == nil {
			a = &accumulator{}
			acc[name] = a
		}
		a.add(v)
	}
}

func statTable(acc map[string]*accumulator, kind StatKind) *table.Table {
	type entry struct {
		name  string
		value float64
	}
	entries := make([]entry, 0, len(acc))
	for name, a := range acc {
		entries = append(entries, entry{name, a.value(kind)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].name < entries[j].name
	})

	out := table.New("name", strings.ToLower(kind.String()))
	for _, e := range entries {
		out.Append(e.name, e.value)
	}
	return out
}

func cellString(row table.Row, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	s, ok := row[idx].(string)
	return s, ok && s != ""
}

func cellFloat(row table.Row, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}
	switch v := row[idx].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

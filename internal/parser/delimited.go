package parser

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// DefaultAliases unifies ticker renames across broker dumps and exchange
// pages.
var DefaultAliases = map[string]string{
	"XTRADEBDM":   "XTB",
	"CELONPHARMA": "CLNPHARMA",
}

// transTimeFormat matches broker export timestamps.
const transTimeFormat = "02.01.2006 15:04:05"

// TransactionCSV reads a broker transaction-history dump. The format uses a
// comma both as field separator and as the decimal mark inside numeric
// fields; lines are repaired by arity before splitting.
//
// Output columns:
// [trans_time, name, stock_id, k_s, amount, unit_price, unit_currency,
// commission_value, commission_currency, price, currency]
// with nil commission cells for the short arity.
type TransactionCSV struct {
	// Aliases maps raw names to canonical tickers; nil means DefaultAliases.
	Aliases map[string]string
}

// Parse implements Parser.
func (p *TransactionCSV) Parse(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	aliases := p.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}

	t := table.New("trans_time", "name", "stock_id", "k_s", "amount",
		"unit_price", "unit_currency", "commission_value",
		"commission_currency", "price", "currency")

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := convert.Trim(scanner.Text())
		if line == "" {
			continue
		}
		fields, err := unifyTransactionFields(line)
		if err != nil {
			return nil, parseErrorf(path, "line %d: %v", lineNo, err)
		}
		row, err := transactionRow(fields, aliases)
		if err != nil {
			return nil, parseErrorf(path, "line %d: %v", lineNo, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

// unifyTransactionFields repairs a raw line and splits it.
//
// The dump separates fields with commas but also writes decimal commas, so a
// line's total comma count identifies its arity: 10 commas is the 8-separator
// format (decimal commas at positions 2 and 5 from the right), 13 commas is
// the 10-separator format with a commission pair (decimals at 2, 5 and 8).
// Lines already using decimal points (8 or 10 commas, all separators) pass
// through unchanged.
func unifyTransactionFields(line string) ([]string, error) {
	commas := strings.Count(line, ",")
	var decimals map[int]bool
	switch commas {
	case 10:
		decimals = map[int]bool{2: true, 5: true}
	case 13:
		decimals = map[int]bool{2: true, 5: true, 8: true}
	case 8:
		decimals = nil
	default:
		return nil, fmt.Errorf("unsupported field count (%d commas)", commas)
	}

	if decimals != nil {
		var b strings.Builder
		fromRight := commas
		for _, r := range line {
			if r == ',' {
				if decimals[fromRight] {
					b.WriteRune('.')
				} else {
					b.WriteRune(';')
				}
				fromRight--
			} else {
				b.WriteRune(r)
			}
		}
		line = b.String()
	} else {
		line = strings.ReplaceAll(line, ",", ";")
	}

	fields := strings.Split(line, ";")
	for i, fld := range fields {
		fields[i] = convert.Trim(fld)
	}
	return fields, nil
}

// transactionRow converts unified fields into a table row.
func transactionRow(fields []string, aliases map[string]string) (table.Row, error) {
	var (
		commission    any
		commissionCcy any
		priceIdx      int
	)
	switch len(fields) {
	case 9:
		priceIdx = 7
	case 11:
		priceIdx = 9
		c, ok := convert.ToFloat(fields[7]).(float64)
		if !ok {
			return nil, fmt.Errorf("bad commission %q", fields[7])
		}
		commission = c
		commissionCcy = fields[8]
	default:
		return nil, fmt.Errorf("unexpected field count %d", len(fields))
	}

	ts, err := time.Parse(transTimeFormat, fields[0])
	if err != nil {
		return nil, fmt.Errorf("bad transaction time %q", fields[0])
	}
	name := fields[1]
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	side := strings.ToUpper(fields[3])
	if side != "K" && side != "S" {
		return nil, fmt.Errorf("bad side %q", fields[3])
	}
	amount, ok := convert.ToInt(fields[4]).(int64)
	if !ok {
		return nil, fmt.Errorf("bad amount %q", fields[4])
	}
	unitPrice, ok := convert.ToFloat(fields[5]).(float64)
	if !ok {
		return nil, fmt.Errorf("bad unit price %q", fields[5])
	}
	price, ok := convert.ToFloat(fields[priceIdx]).(float64)
	if !ok {
		return nil, fmt.Errorf("bad price %q", fields[priceIdx])
	}

	return table.Row{
		ts, name, fields[2], side, amount, unitPrice, fields[6],
		commission, commissionCcy, price, fields[priceIdx+1],
	}, nil
}

// --- Intraday candle dumps ---

// intradayFields is the fixed arity of the intraday text dump:
// name, period, date, time, open, high, low, close, volume, open interest.
const intradayFields = 10

// IntradayPRN reads the exchange's delimited intraday candle dump. The final
// summary line is dropped, rows whose numeric fields fail to convert are
// filtered out, and name aliases are applied.
//
// Output columns: [name, date, open, high, low, close, volume].
type IntradayPRN struct {
	Aliases map[string]string
}

// Parse implements Parser.
func (p *IntradayPRN) Parse(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	aliases := p.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(lines) > 0 {
		// The dump ends with a totals line.
		lines = lines[:len(lines)-1]
	}

	t := table.New("name", "date", "open", "high", "low", "close", "volume")
	corrupt := 0
	for _, line := range lines {
		row, ok := intradayRow(line, aliases)
		if !ok {
			corrupt++
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if corrupt > 0 {
		log.Debug().Str("path", path).Int("rows", corrupt).Msg("filtered corrupt intraday rows")
	}
	return t, nil
}

// intradayRow parses one candle line; ok is false for corrupt rows.
func intradayRow(line string, aliases map[string]string) (table.Row, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != intradayFields {
		return nil, false
	}
	name := convert.Trim(fields[0])
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	ts, err := time.Parse("20060102 150405", fields[2]+" "+fields[3])
	if err != nil {
		return nil, false
	}
	nums := make([]float64, 5)
	for i, fld := range fields[4:9] {
		v, err := strconv.ParseFloat(fld, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = v
	}
	return table.Row{name, ts, nums[0], nums[1], nums[2], nums[3], nums[4]}, true
}


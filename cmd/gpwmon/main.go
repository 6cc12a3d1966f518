// gpwmon — Warsaw Stock Exchange monitoring toolkit
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gpwtool/gpwmon/internal/analysis"
	"github.com/gpwtool/gpwmon/internal/calendar"
	"github.com/gpwtool/gpwmon/internal/config"
	"github.com/gpwtool/gpwmon/internal/fetch"
	"github.com/gpwtool/gpwmon/internal/gpw"
	"github.com/gpwtool/gpwmon/internal/logging"
	"github.com/gpwtool/gpwmon/internal/storage"
	"github.com/gpwtool/gpwmon/internal/table"
	"github.com/gpwtool/gpwmon/internal/wallet"
	"github.com/gpwtool/gpwmon/internal/worksheet"
	"github.com/gpwtool/gpwmon/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

const dayFormat = "2006-01-02"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gpwmon",
	Short: "gpwmon — Warsaw Stock Exchange monitoring toolkit",
	Long: `gpwmon downloads, caches, and analyzes Warsaw Stock Exchange data:
continuous quotations, end-of-day archives, intraday candles, exchange
notifications, and broker transaction histories.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		if logall, _ := cmd.Flags().GetBool("logall"); logall {
			level = "debug"
		}
		logging.Setup(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("logall", false, "log everything (same as --log-level debug)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(archiveStatCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(transCmd)
}

// registry builds the worksheet registry from the loaded config.
func registry() *worksheet.Registry {
	store := storage.New(cfg.Cache.Root)
	client := fetch.NewClient(time.Duration(cfg.HTTP.TimeoutSec)*time.Second, cfg.HTTP.Insecure)
	return worksheet.NewRegistry(store, client)
}

// staticSources are the sources the refresh and status commands iterate.
func staticSources() []worksheet.Source {
	return []worksheet.Source{
		gpw.Stocks(),
		gpw.NewConnect(),
		gpw.Indices(),
		gpw.ESPIFeed(),
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gpwmon %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location and grab times of the known sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.New(cfg.Cache.Root)
		fmt.Printf("market:     %s\n", utils.MarketStatus())
		fmt.Printf("cache root: %s\n", cfg.Cache.Root)
		for _, src := range staticSources() {
			ts, ok := store.ReadTimestamp(src.DataPath())
			when := "never"
			if ok {
				when = ts.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %-12s grabbed %s\n", src.Name(), when)
		}
		return nil
	},
}

// --- Refresh Command ---

var refreshCmd = &cobra.Command{
	Use:   "refresh [source ...]",
	Short: "Force-download sources (default: all quotation pages)",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry()
		sources := staticSources()
		if len(args) > 0 {
			byName := make(map[string]worksheet.Source, len(sources))
			for _, src := range sources {
				byName[src.Name()] = src
			}
			sources = sources[:0]
			for _, name := range args {
				src, ok := byName[name]
				if !ok {
					return fmt.Errorf("unknown source %q", name)
				}
				sources = append(sources, src)
			}
		}

		for _, src := range sources {
			t, err := reg.DAO(src).Load(cmd.Context(), true)
			if err != nil {
				return err
			}
			rows := 0
			if t != nil {
				rows = t.Len()
			}
			fmt.Printf("%-12s %d rows\n", src.Name(), rows)
		}
		return nil
	},
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [ticker]",
	Short: "Show the current quotation of a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		reg := registry()

		for _, src := range []worksheet.Source{gpw.Stocks(), gpw.NewConnect()} {
			dao := reg.DAO(src)
			if _, err := dao.Access(cmd.Context()); err != nil {
				return err
			}
			row, found, err := dao.RowByKey(worksheet.ColTicker, ticker)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			fmt.Printf("%s (%s)\n", ticker, src.Name())
			for _, col := range []worksheet.Column{
				worksheet.ColStockName, worksheet.ColCurrency, worksheet.ColOpening,
				worksheet.ColMin, worksheet.ColMax, worksheet.ColClosing,
				worksheet.ColChangeToRef, worksheet.ColVolume,
			} {
				v, err := dao.ValueAt(col, row)
				if err != nil {
					return err
				}
				fmt.Printf("  %-14s %s\n", col, table.FormatCell(v))
			}
			return nil
		}
		return fmt.Errorf("ticker %q not quoted on any known market", ticker)
	},
}

// --- Archive Stat Command ---

var archiveStatCmd = &cobra.Command{
	Use:   "archive-stat",
	Short: "Fold an end-of-day archive column over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := dateRangeFlags(cmd)
		if err != nil {
			return err
		}
		dataName, _ := cmd.Flags().GetString("data")
		data, err := analysis.ParseArchiveDataType(dataName)
		if err != nil {
			return err
		}
		statName, _ := cmd.Flags().GetString("stat")
		kind, err := analysis.ParseStatKind(statName)
		if err != nil {
			return err
		}

		cal, err := calendar.Open(cfg.HolidayFile())
		if err != nil {
			return err
		}
		defer closeCalendar(cal)

		result, err := analysis.RangeArchiveStat(cmd.Context(), registry(), cal,
			from, to, data, kind, cfg.Analysis.ConcurrentFetches)
		if err != nil {
			return err
		}
		return emit(cmd, result)
	},
}

func init() {
	archiveStatCmd.Flags().String("from", "", "range start (YYYY-MM-DD)")
	archiveStatCmd.Flags().String("to", "", "range end (YYYY-MM-DD)")
	archiveStatCmd.Flags().String("data", "CLOSING", "archive column (OPENING, MAX, MIN, CLOSING, CHANGE, VOLUME, TRANSACTIONS, TRADING)")
	archiveStatCmd.Flags().String("stat", "MAX", "fold (MIN, MAX, SUM, VARIANCE)")
	archiveStatCmd.Flags().String("out", "", "also write the result as CSV under the output dir")
	archiveStatCmd.MarkFlagRequired("from")
	archiveStatCmd.MarkFlagRequired("to")
}

// --- Activity Command ---

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Score intraday bar activity for one session date",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := time.Parse(dayFormat, dateStr)
		if err != nil {
			return fmt.Errorf("bad --date %q: %w", dateStr, err)
		}
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		if threshold == 0 {
			threshold = cfg.Analysis.ActivityThreshold
		}

		dao := registry().DAO(gpw.Intraday(day))
		t, err := dao.Load(cmd.Context(), false)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("no intraday data for %s", dateStr)
		}
		return emit(cmd, analysis.Activity(t, threshold))
	},
}

func init() {
	activityCmd.Flags().String("date", "", "session date (YYYY-MM-DD)")
	activityCmd.Flags().Float64("threshold", 0, "relative change above which a bar is directional")
	activityCmd.Flags().String("out", "", "also write the result as CSV under the output dir")
	activityCmd.MarkFlagRequired("date")
}

// --- Holidays Command ---

var holidaysCmd = &cobra.Command{
	Use:   "holidays [date ...]",
	Short: "Check whether dates were exchange sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cal, err := calendar.Open(cfg.HolidayFile())
		if err != nil {
			return err
		}
		defer closeCalendar(cal)

		mark, _ := cmd.Flags().GetBool("mark")
		for _, arg := range args {
			day, err := time.Parse(dayFormat, arg)
			if err != nil {
				return fmt.Errorf("bad date %q: %w", arg, err)
			}
			if mark {
				cal.MarkHoliday(day)
			}
			verdict := "session day"
			if cal.IsHoliday(day) {
				verdict = "holiday"
			}
			fmt.Printf("%s  %s\n", arg, verdict)
		}
		return nil
	},
}

func init() {
	holidaysCmd.Flags().Bool("mark", false, "record the dates as holidays")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "List recent exchange notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry()
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		rss, _ := cmd.Flags().GetBool("rss")

		src := gpw.ESPI(page, limit)
		if rss {
			src = gpw.ESPIFeed()
		}
		t, err := reg.DAO(src).Load(cmd.Context(), true)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("notification feed returned no data")
		}
		for _, row := range t.Rows {
			// [name, isin, date, title, url]
			fmt.Printf("%-19s %-12s %s\n",
				table.FormatCell(row[2]), table.FormatCell(row[0]), table.FormatCell(row[3]))
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("page", 1, "notification list page")
	newsCmd.Flags().Int("limit", 30, "notifications per page")
	newsCmd.Flags().Bool("rss", false, "read the RSS feed instead of the HTML list")
}

// --- Trans Command ---

var transCmd = &cobra.Command{
	Use:   "trans",
	Short: "Match broker transaction history into positions and realized profits",
	RunE: func(cmd *cobra.Command, args []string) error {
		historyPath, _ := cmd.Flags().GetString("transhistory")
		if historyPath == "" {
			return fmt.Errorf("--transhistory is required")
		}
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := wallet.ParseMatchMode(modeName)
		if err != nil {
			return err
		}

		w, err := wallet.Load(historyPath)
		if err != nil {
			return err
		}

		items := w.CurrentItems(mode)
		fmt.Printf("current positions (%s):\n", mode)
		for i := 0; i < items.Len(); i++ {
			cost, _ := items.At(i, 2).(float64)
			fmt.Printf("  %-12s %10s @ %s\n",
				table.FormatCell(items.At(i, 0)),
				table.FormatCell(items.At(i, 1)),
				utils.FormatPLN(cost))
		}

		sells := w.SellTransactions(mode)
		if outPath, _ := cmd.Flags().GetString("trans_out_file"); outPath != "" {
			if err := wallet.Export(sells, outPath); err != nil {
				return err
			}
			log.Info().Str("path", outPath).Msg("wrote realized sells")
		}
		return nil
	},
}

func init() {
	transCmd.Flags().String("transhistory", "", "broker transaction history CSV")
	transCmd.Flags().String("trans_out_file", "", "write realized sells (.json, .csv, .xlsx, .xls)")
	transCmd.Flags().String("mode", "FIFO", "lot matching mode (FIFO, LIFO, BEST)")
}

// --- Helpers ---

func dateRangeFlags(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := time.Parse(dayFormat, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad --from %q: %w", fromStr, err)
	}
	to, err := time.Parse(dayFormat, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad --to %q: %w", toStr, err)
	}
	return from, to, nil
}

// emit prints a result table and optionally writes it under the output dir.
func emit(cmd *cobra.Command, t *table.Table) error {
	fmt.Println(strings.Join(t.Header, "  "))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = table.FormatCell(c)
		}
		fmt.Println(strings.Join(cells, "  "))
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		path := filepath.Join(cfg.Output.Dir, out)
		if err := table.WriteCSV(t, path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote result CSV")
	}
	return nil
}

func closeCalendar(cal *calendar.Calendar) {
	if err := cal.Close(); err != nil {
		log.Error().Err(err).Msg("closing holiday calendar")
	}
}

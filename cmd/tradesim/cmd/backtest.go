package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/backtest"
	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/perf"
	"github.com/rustyeddy/tradesim/policy"
	"github.com/rustyeddy/tradesim/sim"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a decision policy against historical or synthetic bars",
	Long: `Backtest steps a decision policy through a bar series, journals the
run, and reports the performance metrics.

Bars come from a CSV dataset (time,open,high,low,close,volume with
optional feature columns, .xz accepted) or, when no dataset is given,
from a seeded synthetic random walk.

Examples:
  tradesim backtest
  tradesim backtest -t data/btcusdt-1h.csv.xz -s trend
  tradesim backtest -s random --seed 7 -n 1000 --chart equity.html
  tradesim backtest -f sim.yaml --report -`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btDataset    string
	btFrom       string
	btTo         string
	btSymbol     string
	btPolicy     string
	btSeed       int64
	btBars       int
	btStart      float64
	btDrift      float64
	btVol        float64
	btBalance    float64
	btFee        float64
	btWindow     int
	btRunID      string
	btDBPath     string
	btReport     string
	btChart      string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "f", "", "config file supplying defaults (YAML or JSON)")
	backtestCmd.Flags().StringVarP(&btDataset, "dataset", "t", "", "bar CSV path, .xz accepted (empty generates a synthetic walk)")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "drop bars before this time (RFC3339 or YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "drop bars at or after this time (RFC3339 or YYYY-MM-DD)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "i", "BTCUSDT", "instrument symbol for journaling")
	backtestCmd.Flags().StringVarP(&btPolicy, "policy", "s", "momentum",
		fmt.Sprintf("policy name (%s)", strings.Join(policy.Names(), ", ")))
	backtestCmd.Flags().Int64Var(&btSeed, "seed", 42, "seed for the synthetic walk and the policy")
	backtestCmd.Flags().IntVarP(&btBars, "bars", "n", 500, "synthetic walk length")
	backtestCmd.Flags().Float64Var(&btStart, "start", 100, "synthetic walk starting price")
	backtestCmd.Flags().Float64Var(&btDrift, "drift", 0.0005, "synthetic walk per-bar drift")
	backtestCmd.Flags().Float64Var(&btVol, "vol", 0.02, "synthetic walk per-bar volatility")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 10_000, "starting balance")
	backtestCmd.Flags().Float64Var(&btFee, "fee", 0.001, "commission per unit of turnover")
	backtestCmd.Flags().IntVarP(&btWindow, "window", "w", 50, "observation window in bars")
	backtestCmd.Flags().StringVar(&btRunID, "run-id", "", "run identifier (generated when empty)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", `SQLite journal path, "none" disables journaling (default: the config journal)`)
	backtestCmd.Flags().StringVarP(&btReport, "report", "r", "", `write an org-mode run report to this path ("-" for stdout)`)
	backtestCmd.Flags().StringVarP(&btChart, "chart", "c", "", "write an equity-curve HTML chart to this path")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if btConfigPath != "" {
		loaded, err := config.LoadFromFile(btConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	// Flags the user left alone fall back to the config file.
	flags := cmd.Flags()
	if !flags.Changed("balance") {
		btBalance = cfg.Simulation.InitialBalance
	}
	if !flags.Changed("fee") {
		btFee = cfg.Simulation.FeeRate
	}
	if !flags.Changed("window") {
		btWindow = cfg.Simulation.WindowSize
	}
	if !flags.Changed("policy") {
		btPolicy = cfg.Policy.Name
	}
	if !flags.Changed("seed") {
		btSeed = cfg.Policy.Seed
	}

	series, source, err := loadSeries()
	if err != nil {
		return err
	}

	pol, err := policy.ByName(btPolicy, btSeed)
	if err != nil {
		return err
	}

	j, jDesc, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	fmt.Printf("Running backtest with policy: %s\n", pol.Name())
	fmt.Printf("  Bars: %d (%s)\n", series.Len(), source)
	fmt.Printf("  Balance: $%.2f, fee %.3f%%, window %d\n", btBalance, btFee*100, btWindow)
	if jDesc != "" {
		fmt.Printf("  Journal: %s\n", jDesc)
	}
	fmt.Println()

	res, err := backtest.Run(context.Background(), backtest.Options{
		Series:  series,
		Policy:  pol,
		Sim:     sim.Config{InitialBalance: btBalance, FeeRate: btFee, WindowSize: btWindow},
		RunID:   btRunID,
		Symbol:  btSymbol,
		Journal: j,
		Logger:  newLogger(),
	})
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	fmt.Printf("Backtest complete: run %s, %d steps\n\n", res.RunID, res.Steps)
	fmt.Print(res.Metrics.Summary())

	if btReport != "" {
		if err := writeReport(btReport, res, series.Len()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if btReport != "-" {
			fmt.Printf("\n✓ Report: %s\n", btReport)
		}
	}
	if btChart != "" {
		if err := writeChart(btChart, res); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Printf("✓ Chart: %s\n", btChart)
	}
	return nil
}

func loadSeries() (*market.Series, string, error) {
	if btDataset == "" {
		return market.RandomWalk(btBars, btStart, btDrift, btVol, btSeed), "synthetic walk", nil
	}

	from, err := parseFlagTime(btFrom)
	if err != nil {
		return nil, "", fmt.Errorf("bad --from: %w", err)
	}
	to, err := parseFlagTime(btTo)
	if err != nil {
		return nil, "", fmt.Errorf("bad --to: %w", err)
	}

	series, err := backtest.LoadCSV(btDataset, from, to)
	if err != nil {
		return nil, "", err
	}
	return series, btDataset, nil
}

func parseFlagTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// openJournal resolves the --db flag against the config journal
// section. The description names the destination for the run banner.
func openJournal(jc config.JournalConfig) (journal.Journal, string, error) {
	if btDBPath == "none" {
		return nil, "", nil
	}
	if btDBPath != "" {
		j, err := journal.NewSQLite(btDBPath)
		if err != nil {
			return nil, "", err
		}
		return j, btDBPath, nil
	}

	switch jc.Type {
	case "none":
		return nil, "", nil
	case "csv":
		j, err := journal.NewCSV(jc.TradesFile, jc.EquityFile)
		if err != nil {
			return nil, "", err
		}
		return j, jc.TradesFile + ", " + jc.EquityFile, nil
	default:
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, "", err
		}
		return j, jc.DBPath, nil
	}
}

func writeReport(path string, res backtest.Result, bars int) error {
	run := journal.Run{
		RunID:          res.RunID,
		Created:        time.Now().UTC(),
		Symbol:         res.Symbol,
		Policy:         res.Policy,
		Bars:           bars,
		WindowSize:     btWindow,
		FeeRate:        btFee,
		InitialBalance: btBalance,
		Results:        res.Metrics,
	}
	rows := make([]journal.TradeRow, 0, len(res.Trades))
	for _, tr := range res.Trades {
		rows = append(rows, journal.NewTradeRow(res.RunID, tr))
	}

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return journal.WriteOrg(w, run, rows)
}

func writeChart(path string, res backtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("%s %s (run %s)", res.Symbol, res.Policy, res.RunID)
	return perf.WriteEquityChart(f, title, res.Equity)
}

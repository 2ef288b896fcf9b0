package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded runs",
	Long: `Query and display runs recorded in the SQLite journal.

Subcommands:
  runs - list recorded runs, most recent first
  run  - print one run as an org-mode report
  day  - list runs recorded on a specific day

Examples:
  tradesim journal runs
  tradesim journal run 01JX3H2M5Q0VJYB8R4T6W9ZCAD
  tradesim journal day 2026-08-23`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Print one run as an org-mode report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List runs recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var (
	journalDBPath string
	journalLimit  int
	journalOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./tradesim.db", "path to the SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "l", 20, "maximum runs to list")
	journalRunCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "write the report here instead of stdout")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	printRuns(runs)
	return nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	var w io.Writer = os.Stdout
	if journalOutput != "" {
		f, err := os.Create(journalOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := j.ExportOrg(w, args[0]); err != nil {
		return fmt.Errorf("export run: %w", err)
	}
	if journalOutput != "" {
		fmt.Printf("✓ Report written: %s\n", journalOutput)
	}
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	start, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	end := start.Add(24 * time.Hour)

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	// A negative limit means no cap in SQLite.
	runs, err := j.ListRuns(-1)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	var hits []journal.Run
	for _, r := range runs {
		if !r.Created.Before(start) && r.Created.Before(end) {
			hits = append(hits, r)
		}
	}
	printRuns(hits)
	return nil
}

func printRuns(runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	fmt.Printf("%-26s  %-16s  %-10s  %-20s  %10s  %7s\n",
		"RUN", "CREATED", "SYMBOL", "POLICY", "RETURN %", "TRADES")
	for _, r := range runs {
		fmt.Printf("%-26s  %-16s  %-10s  %-20s  %10.2f  %7d\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Symbol, r.Policy,
			r.Results.TotalReturnPct, r.Results.TotalTrades)
	}
}

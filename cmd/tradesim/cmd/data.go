package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/backtest"
	"github.com/rustyeddy/tradesim/market"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Produce bar datasets",
	Long: `Produce CSV bar datasets for the backtester.

Subcommands:
  synth - write a synthetic random walk as a bar CSV

Example:
  tradesim data synth -o bars.csv -n 1000 --seed 7`,
}

var dataSynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Write a synthetic random walk as a bar CSV",
	Long: `Generate a seeded geometric random walk and write it in the bar
CSV schema the backtester reads (time,open,high,low,close,volume and
two feature columns).

Example:
  tradesim data synth -o bars.csv -n 2000 --vol 0.015
  tradesim backtest -t bars.csv`,
	RunE: runDataSynth,
}

var (
	dataOutput string
	dataBars   int
	dataStart  float64
	dataDrift  float64
	dataVol    float64
	dataSeed   int64
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataSynthCmd)

	dataSynthCmd.Flags().StringVarP(&dataOutput, "output", "o", "bars.csv", "output CSV path")
	dataSynthCmd.Flags().IntVarP(&dataBars, "bars", "n", 1000, "number of bars")
	dataSynthCmd.Flags().Float64Var(&dataStart, "start", 100, "starting price")
	dataSynthCmd.Flags().Float64Var(&dataDrift, "drift", 0.0005, "per-bar drift")
	dataSynthCmd.Flags().Float64Var(&dataVol, "vol", 0.02, "per-bar volatility")
	dataSynthCmd.Flags().Int64Var(&dataSeed, "seed", 42, "generator seed")
}

func runDataSynth(cmd *cobra.Command, args []string) error {
	series := market.RandomWalk(dataBars, dataStart, dataDrift, dataVol, dataSeed)

	f, err := os.Create(dataOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := backtest.WriteBars(f, series); err != nil {
		return fmt.Errorf("write bars: %w", err)
	}

	fmt.Printf("✓ Wrote %d bars: %s\n", series.Len(), dataOutput)
	fmt.Println("\nBacktest it with:")
	fmt.Printf("  tradesim backtest -t %s\n", dataOutput)
	return nil
}

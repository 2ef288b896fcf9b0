package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "A trading simulator with risk-governed execution",
	Long: `Tradesim is a trading simulator and execution sandbox written in Go.

It provides tools for:
  - Backtesting decision policies against historical or synthetic bars
  - Episodic portfolio simulation with commission and drawdown accounting
  - Risk-governed position sizing and trade admission
  - Paper and live order execution through one coordinator
  - SQLite/CSV run journals with org-mode reports

Complete documentation is available at https://github.com/rustyeddy/tradesim`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable structured debug logging")
}

// newLogger returns a development zap logger when --verbose is set and
// a nop logger otherwise, keeping normal output readable.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Package journal persists episode history: the trades and equity
// snapshots produced while a run executes, plus a summary row per
// finished run. SQLite is the queryable backend; CSV is a flat export
// for spreadsheets.
package journal

import (
	"time"

	"github.com/rustyeddy/tradesim/perf"
	"github.com/rustyeddy/tradesim/sim"
)

// TradeRow is one executed rebalance tagged with its run.
type TradeRow struct {
	RunID      string
	Step       int
	Price      float64
	Position   float64
	Size       float64
	Commission float64
	Equity     float64
}

// NewTradeRow tags a simulator trade with the run that produced it.
func NewTradeRow(runID string, tr sim.TradeRecord) TradeRow {
	return TradeRow{
		RunID:      runID,
		Step:       tr.Step,
		Price:      tr.Price,
		Position:   tr.Position,
		Size:       tr.Size,
		Commission: tr.Commission,
		Equity:     tr.Equity,
	}
}

// EquityPoint is one mark-to-market snapshot within a run.
type EquityPoint struct {
	RunID  string
	Step   int
	Equity float64
}

// Run is the summary row written once per finished episode.
type Run struct {
	RunID          string
	Created        time.Time
	Symbol         string
	Policy         string
	Bars           int
	WindowSize     int
	FeeRate        float64
	InitialBalance float64
	Results        perf.Metrics
}

// Journal records per-step history. Implementations flush on Close.
type Journal interface {
	RecordTrade(TradeRow) error
	RecordEquity(EquityPoint) error
	Close() error
}

// RunRecorder persists run summaries. The SQLite journal implements
// it; flat-file journals do not, so callers upgrade via a type
// assertion when they have a summary to keep.
type RunRecorder interface {
	RecordRun(Run) error
}

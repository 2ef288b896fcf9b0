package perf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesim/sim"
)

func tradesAt(equities ...float64) []sim.TradeRecord {
	trades := make([]sim.TradeRecord, len(equities))
	for i, e := range equities {
		trades[i] = sim.TradeRecord{Step: 50 + i, Price: 100, Equity: e}
	}
	return trades
}

func TestAnalyzeEmptyCurve(t *testing.T) {
	m := Analyze(Input{InitialBalance: 10000})

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 10000.0, m.FinalBalance)
}

func TestAnalyzeTotals(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10200, 10302},
		InitialBalance: 10000,
	})

	assert.Equal(t, 302.0, m.TotalReturn)
	assert.Equal(t, 3.02, m.TotalReturnPct)
	assert.Equal(t, 10302.0, m.FinalBalance)
	assert.Equal(t, 0.0, m.MaxDrawdown)

	// Percent deltas are exactly [2, 1]: mean 1.5, stddev 0.5,
	// annualized by sqrt(252*24).
	assert.InDelta(t, 233.31, m.SharpeRatio, 0.001)
}

func TestSharpeZeroOnFlatCurve(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10000, 10000},
		InitialBalance: 10000,
	})
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestSharpeNeedsTwoReturns(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10100},
		InitialBalance: 10000,
	})
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestDrawdownFromCurve(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 12000, 9000},
		InitialBalance: 10000,
	})
	assert.Equal(t, -25.0, m.MaxDrawdown)
}

func TestDrawdownPrefersDeeperTrackedValue(t *testing.T) {
	in := Input{
		EquityCurve:    []float64{10000, 12000, 9000},
		InitialBalance: 10000,
		SimMaxDrawdown: 0.30,
	}
	assert.Equal(t, -30.0, Analyze(in).MaxDrawdown)

	// A shallower tracked value never hides the curve's own decline.
	in.SimMaxDrawdown = 0.10
	assert.Equal(t, -25.0, Analyze(in).MaxDrawdown)
}

func TestTradeStats(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10100, 10050, 10200},
		Trades:         tradesAt(10100, 10050, 10200),
		InitialBalance: 10000,
	})

	// P&L per trade: +100, -50, +150.
	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 66.7, m.WinRate)
	assert.Equal(t, 5.0, m.ProfitFactor)
}

func TestWinRateRounding(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10100, 10050, 10000},
		Trades:         tradesAt(10100, 10050, 10000),
		InitialBalance: 10000,
	})

	assert.Equal(t, 33.3, m.WinRate)
	assert.Equal(t, 1.0, m.ProfitFactor)
}

func TestTradeStatsFallsBackToCurve(t *testing.T) {
	// Flat trade equities produce no wins and no profit, so the
	// classification re-runs over raw curve deltas: +10, -20, +30.
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10010, 9990, 10020},
		Trades:         tradesAt(10000, 10000),
		InitialBalance: 10000,
	})

	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 2.0, m.ProfitFactor)
}

func TestProfitFactorWithoutLosses(t *testing.T) {
	m := Analyze(Input{
		EquityCurve:    []float64{10000, 10100},
		Trades:         tradesAt(10100),
		InitialBalance: 10000,
	})

	// No losing trades: the factor degenerates to gross profit.
	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 100.0, m.ProfitFactor)
}

func TestAnalyzeIdempotent(t *testing.T) {
	in := Input{
		EquityCurve:    []float64{10000, 10100, 9900, 10250},
		Trades:         tradesAt(10100, 9900, 10250),
		InitialBalance: 10000,
		SimMaxDrawdown: 0.02,
	}
	assert.Equal(t, Analyze(in), Analyze(in))
}

func TestSummaryLayout(t *testing.T) {
	s := Analyze(Input{
		EquityCurve:    []float64{10000, 10100},
		InitialBalance: 10000,
	}).Summary()

	assert.Contains(t, s, "Sharpe ratio")
	assert.Contains(t, s, "10100.00")
	assert.Equal(t, 7, strings.Count(s, "\n"))
}

func TestWriteEquityChart(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEquityChart(&buf, "demo run", []float64{10000, 10100, 10050})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echarts")
	assert.Contains(t, buf.String(), "demo run")
}

func TestWriteEquityChartRejectsEmptyCurve(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEquityChart(&buf, "empty", nil)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

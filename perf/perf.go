// Package perf reduces a recorded equity curve and trade log to
// summary statistics. Analyze is pure: the same history always yields
// the same Metrics, so it can run repeatedly over a live account or
// once at the end of a backtest.
package perf

import (
	"math"

	"github.com/rustyeddy/tradesim/sim"
)

// annualization converts hourly-bar return moments to a yearly Sharpe
// figure: 252 trading days of 24 hourly bars. Fixed by convention;
// callers feeding other bar frequencies get a Sharpe on the wrong
// scale and should rescale downstream.
const annualization = 252 * 24

// Input is one account history to summarize.
type Input struct {
	// EquityCurve holds mark-to-market equity snapshots, starting
	// balance first, one point per completed step after it.
	EquityCurve []float64

	// Trades are the executed rebalances, oldest first.
	Trades []sim.TradeRecord

	InitialBalance float64

	// SimMaxDrawdown is the drawdown fraction tracked inside the
	// simulator when one produced this history, zero otherwise. The
	// reported drawdown is the deeper of this and the curve-derived
	// value; the two diverge when the curve was resampled or
	// truncated for reporting.
	SimMaxDrawdown float64
}

// Metrics is the reporting schema. Fields are rounded for output:
// two decimals for currency and percentages, one for the win rate.
// MaxDrawdown is a percent decline from peak and never positive.
type Metrics struct {
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	WinRate        float64 `json:"win_rate"`
	TotalTrades    int     `json:"total_trades"`
	ProfitFactor   float64 `json:"profit_factor"`
	FinalBalance   float64 `json:"final_balance"`
}

// Analyze reduces one history to its Metrics. An empty curve yields
// zero metrics with the final balance pinned to the initial balance.
func Analyze(in Input) Metrics {
	if len(in.EquityCurve) == 0 {
		return Metrics{FinalBalance: round2(in.InitialBalance)}
	}

	final := in.EquityCurve[len(in.EquityCurve)-1]
	totalReturn := final - in.InitialBalance

	winRate, profitFactor := tradeStats(in)

	return Metrics{
		TotalReturn:    round2(totalReturn),
		TotalReturnPct: round2(totalReturn / in.InitialBalance * 100),
		SharpeRatio:    round2(sharpeRatio(in.EquityCurve)),
		MaxDrawdown:    round2(maxDrawdownPct(in.EquityCurve, in.SimMaxDrawdown)),
		WinRate:        round1(winRate),
		TotalTrades:    len(in.Trades),
		ProfitFactor:   roundProfitFactor(profitFactor),
		FinalBalance:   round2(final),
	}
}

// sharpeRatio annualizes the mean over standard deviation of the
// curve's consecutive percent deltas. Zero when fewer than two deltas
// exist or the curve never varies.
func sharpeRatio(equity []float64) float64 {
	if len(equity) < 3 {
		return 0
	}

	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = (equity[i] - equity[i-1]) / equity[i-1] * 100
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualization)
}

// maxDrawdownPct finds the deepest percent decline from a running
// peak, then lets a deeper simulator-tracked figure win.
func maxDrawdownPct(equity []float64, simFraction float64) float64 {
	peak := equity[0]
	worst := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		dd := (e - peak) / peak * 100
		if dd < worst {
			worst = dd
		}
	}
	if tracked := -simFraction * 100; tracked < worst {
		worst = tracked
	}
	return worst
}

// tradeStats derives per-trade P&L by differencing the equity
// attributed to consecutive trades, starting from the initial
// balance. A history whose trades never cleared a profit falls back
// to classifying raw curve deltas, which keeps the estimate
// meaningful when trade records carry no usable fill-to-fill equity.
func tradeStats(in Input) (winRate, profitFactor float64) {
	if len(in.Trades) == 0 {
		return 0, 0
	}

	wins := 0
	var profit, loss float64
	prev := in.InitialBalance
	for _, tr := range in.Trades {
		pnl := tr.Equity - prev
		if pnl > 0 {
			wins++
			profit += pnl
		} else {
			loss -= pnl
		}
		prev = tr.Equity
	}

	if wins == 0 && profit == 0 {
		wins, profit, loss = curveStats(in.EquityCurve)
	}

	winRate = float64(wins) / float64(len(in.Trades)) * 100
	if loss > 0 {
		profitFactor = profit / loss
	} else if profit > 0 {
		profitFactor = profit
	}
	return winRate, profitFactor
}

func curveStats(equity []float64) (wins int, profit, loss float64) {
	for i := 1; i < len(equity); i++ {
		d := equity[i] - equity[i-1]
		if d > 0 {
			wins++
			profit += d
		} else {
			loss -= d
		}
	}
	return wins, profit, loss
}

func roundProfitFactor(pf float64) float64 {
	if pf <= 0 {
		return 0
	}
	return round2(pf)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round1(x float64) float64 { return math.Round(x*10) / 10 }

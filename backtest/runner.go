// Package backtest drives simulator episodes: it feeds a decision
// policy one closed bar at a time, steps the simulator with whatever
// the policy last decided, snapshots the equity curve, and folds the
// outcome into performance metrics and optional journal rows.
package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/perf"
	"github.com/rustyeddy/tradesim/pkg/id"
	"github.com/rustyeddy/tradesim/policy"
	"github.com/rustyeddy/tradesim/sim"
)

// Options configure one run.
type Options struct {
	Series *market.Series // required
	Policy policy.Policy  // required

	// Sim is the simulator configuration. The zero value means
	// sim.DefaultConfig(); a partially filled config is used as-is.
	Sim sim.Config

	RunID   string          // empty assigns a new id
	Symbol  string          // label carried into the run summary
	Journal journal.Journal // optional per-step persistence
	Logger  *zap.Logger     // nil gets a no-op logger
}

// Result is one finished episode.
type Result struct {
	RunID   string
	Symbol  string
	Policy  string
	Steps   int
	Reward  float64 // cumulative step reward
	Equity  []float64
	Trades  []sim.TradeRecord
	Metrics perf.Metrics
}

// Run executes a full episode: warm the policy on the bars behind the
// starting cursor, then step until the simulator reports done. The
// policy decides on closed bars only; it never sees the close a step
// trades on. Equity and trade rows go to the journal when one is set,
// and a journal that also keeps run summaries gets one at the end.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Series == nil {
		return Result{}, fmt.Errorf("backtest: Series is required")
	}
	if opts.Policy == nil {
		return Result{}, fmt.Errorf("backtest: Policy is required")
	}

	cfg := opts.Sim
	if cfg == (sim.Config{}) {
		cfg = sim.DefaultConfig()
	}
	s, err := sim.New(opts.Series, cfg)
	if err != nil {
		return Result{}, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = id.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.Policy.Reset()
	var act sim.Action
	for i := 0; i < cfg.WindowSize; i++ {
		act = opts.Policy.Update(opts.Series.Bar(i))
	}

	equity := []float64{cfg.InitialBalance}
	reward := 0.0
	steps := 0

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		_, r, done, info := s.Step(act)
		reward += r
		steps++
		equity = append(equity, info.Equity)

		if opts.Journal != nil {
			err := opts.Journal.RecordEquity(journal.EquityPoint{
				RunID:  runID,
				Step:   info.Step - 1,
				Equity: info.Equity,
			})
			if err != nil {
				return Result{}, fmt.Errorf("record equity: %w", err)
			}
		}
		if done {
			break
		}

		// info.Step is the next bar to trade; the one behind it just
		// closed and is safe to show the policy.
		act = opts.Policy.Update(opts.Series.Bar(info.Step - 1))
	}

	trades := s.Trades()
	if opts.Journal != nil {
		for _, tr := range trades {
			if err := opts.Journal.RecordTrade(journal.NewTradeRow(runID, tr)); err != nil {
				return Result{}, fmt.Errorf("record trade: %w", err)
			}
		}
	}

	metrics := perf.Analyze(perf.Input{
		EquityCurve:    equity,
		Trades:         trades,
		InitialBalance: cfg.InitialBalance,
		SimMaxDrawdown: s.MaxDrawdown(),
	})

	if rec, ok := opts.Journal.(journal.RunRecorder); ok {
		run := journal.Run{
			RunID:          runID,
			Created:        time.Now().UTC(),
			Symbol:         opts.Symbol,
			Policy:         opts.Policy.Name(),
			Bars:           opts.Series.Len(),
			WindowSize:     cfg.WindowSize,
			FeeRate:        cfg.FeeRate,
			InitialBalance: cfg.InitialBalance,
			Results:        metrics,
		}
		if err := rec.RecordRun(run); err != nil {
			return Result{}, fmt.Errorf("record run: %w", err)
		}
	}

	logger.Info("backtest finished",
		zap.String("run_id", runID),
		zap.String("policy", opts.Policy.Name()),
		zap.Int("steps", steps),
		zap.Int("trades", len(trades)),
		zap.Float64("final_balance", metrics.FinalBalance),
		zap.Float64("return_pct", metrics.TotalReturnPct))

	return Result{
		RunID:   runID,
		Symbol:  opts.Symbol,
		Policy:  opts.Policy.Name(),
		Steps:   steps,
		Reward:  reward,
		Equity:  equity,
		Trades:  trades,
		Metrics: metrics,
	}, nil
}

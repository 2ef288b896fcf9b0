// Package sim drives a single-instrument portfolio through a candle
// series one bar at a time. Each episode starts from a clean account,
// consumes one bar per Step and ends when the account hits its equity
// floor, the drawdown cutoff, or the end of the series. The step
// contract is deliberately gym-shaped so a learned or hand-written
// policy can drive it the same way.
package sim

import (
	"fmt"

	"github.com/rustyeddy/tradesim/market"
)

const (
	// hysteresis is the minimum change in target position or size
	// before a rebalance executes. Smaller deltas are free but also
	// have no effect, which keeps jittery policies from bleeding
	// commission every bar.
	hysteresis = 0.1

	minSize = 0.1
	maxSize = 1.0

	// equityFloorFrac ends the episode once equity falls to this
	// fraction of the starting balance.
	equityFloorFrac = 0.7

	// drawdownCutoff ends the episode once peak-to-trough drawdown
	// exceeds this fraction.
	drawdownCutoff = 0.5

	// volatilityWindow is the trailing step-return count used for
	// the volatility estimate.
	volatilityWindow = 20
)

// Config carries the episode parameters. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	InitialBalance float64
	FeeRate        float64 // commission per unit of turnover
	WindowSize     int     // bars visible per observation
}

func DefaultConfig() Config {
	return Config{
		InitialBalance: 10000,
		FeeRate:        0.001,
		WindowSize:     50,
	}
}

// Simulator is a deterministic episodic account over one candle
// series. It is not safe for concurrent use; drive each instance from
// a single goroutine.
type Simulator struct {
	series *market.Series
	cfg    Config

	cursor      int     // index of the next bar to consume
	position    float64 // current direction in [-1, 1]
	size        float64 // current size in [minSize, maxSize]
	equity      float64
	entryPrice  float64 // close at the last rebalance, 0 before the first
	peak        float64
	maxDrawdown float64
	volatility  float64
	returns     []float64
	trades      []TradeRecord
	done        bool
}

// New builds a simulator over series and leaves it reset and ready to
// step. The series must be long enough for at least one step beyond
// the first observation window.
func New(series *market.Series, cfg Config) (*Simulator, error) {
	if series == nil {
		return nil, fmt.Errorf("sim: nil series")
	}
	if cfg.InitialBalance <= 0 {
		return nil, fmt.Errorf("sim: initial balance must be positive, got %v", cfg.InitialBalance)
	}
	if cfg.FeeRate < 0 {
		return nil, fmt.Errorf("sim: fee rate must not be negative, got %v", cfg.FeeRate)
	}
	if cfg.WindowSize < 1 {
		return nil, fmt.Errorf("sim: window size must be at least 1, got %d", cfg.WindowSize)
	}
	if series.Len() < cfg.WindowSize+2 {
		return nil, fmt.Errorf("sim: series of %d bars too short for window %d", series.Len(), cfg.WindowSize)
	}

	s := &Simulator{series: series, cfg: cfg}
	s.Reset()
	return s, nil
}

// Reset rewinds to the start of the series with a flat position and a
// fresh account, and returns the first observation.
func (s *Simulator) Reset() Observation {
	s.cursor = s.cfg.WindowSize
	s.position = 0
	s.size = minSize
	s.equity = s.cfg.InitialBalance
	s.entryPrice = 0
	s.peak = s.cfg.InitialBalance
	s.maxDrawdown = 0
	s.volatility = 0
	s.returns = s.returns[:0]
	s.trades = nil
	s.done = false
	return s.observation()
}

// Step consumes one bar: marks the open position to market, rebalances
// toward the action if it moved far enough, and advances the cursor.
// The reward scores the exposure held INTO the bar, so the commission
// term is the only way the incoming action shows up in it.
//
// Step panics if called after the episode is done; call Reset first.
func (s *Simulator) Step(action Action) (Observation, float64, bool, Info) {
	if s.done {
		panic("sim: Step called on finished episode, Reset first")
	}

	act := action.clamped()

	prev := s.series.Close(s.cursor - 1)
	cur := s.series.Close(s.cursor)
	priceChange := (cur - prev) / prev

	heldExposure := s.position * s.size

	oldEquity := s.equity
	s.equity += heldExposure * priceChange * s.equity

	commission := 0.0
	if abs(act.TargetPosition-s.position) > hysteresis || abs(act.TargetSize-s.size) > hysteresis {
		turnover := abs(act.TargetPosition*act.TargetSize-s.position*s.size) * s.equity
		commission = turnover * s.cfg.FeeRate
		s.equity -= commission

		s.position = act.TargetPosition
		s.size = act.TargetSize
		s.entryPrice = cur

		s.trades = append(s.trades, TradeRecord{
			Step:       s.cursor,
			Price:      cur,
			Position:   s.position,
			Size:       s.size,
			Commission: commission,
			Equity:     s.equity,
		})
	}

	s.updateStats(oldEquity)

	reward := (heldExposure*priceChange - commission/s.cfg.InitialBalance) * 100

	s.cursor++
	s.done = s.equity <= equityFloorFrac*s.cfg.InitialBalance ||
		s.cursor >= s.series.Len()-1 ||
		s.maxDrawdown > drawdownCutoff

	return s.observation(), reward, s.done, s.info()
}

func (s *Simulator) info() Info {
	return Info{
		Equity:         s.equity,
		TotalReturnPct: (s.equity/s.cfg.InitialBalance - 1) * 100,
		Position:       s.position,
		PositionSize:   s.size,
		MaxDrawdown:    s.maxDrawdown,
		TotalTrades:    len(s.trades),
		Price:          s.series.Close(s.cursor),
		Step:           s.cursor,
		Volatility:     s.volatility,
	}
}

// Done reports whether the episode has ended.
func (s *Simulator) Done() bool { return s.done }

// Equity is the account value after the last step.
func (s *Simulator) Equity() float64 { return s.equity }

// Position is the current direction in [-1, 1].
func (s *Simulator) Position() float64 { return s.position }

// PositionSize is the fraction of equity behind the position.
func (s *Simulator) PositionSize() float64 { return s.size }

// EntryPrice is the close of the bar the position was last rebalanced
// on, or 0 if no rebalance has happened yet.
func (s *Simulator) EntryPrice() float64 { return s.entryPrice }

// MaxDrawdown is the worst peak-to-trough equity fraction so far.
func (s *Simulator) MaxDrawdown() float64 { return s.maxDrawdown }

// Volatility is the population standard deviation of the trailing
// step returns, 0 until enough steps have accumulated.
func (s *Simulator) Volatility() float64 { return s.volatility }

// Trades returns the rebalances executed so far, oldest first. The
// slice is the simulator's own; callers must not modify it.
func (s *Simulator) Trades() []TradeRecord { return s.trades }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

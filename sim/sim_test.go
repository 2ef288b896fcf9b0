package sim

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/tradesim/market"
)

func testSeries(t *testing.T, closes ...float64) *market.Series {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:     base.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1000,
			Features: []float64{c / 100},
		}
	}
	s, err := market.NewSeries(bars)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func newTestSim(t *testing.T, closes ...float64) *Simulator {
	t.Helper()
	cfg := Config{InitialBalance: 10000, FeeRate: 0.001, WindowSize: 2}
	s, err := New(testSeries(t, closes...), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestNewRejectsBadInput(t *testing.T) {
	series := testSeries(t, 100, 101, 102, 103, 104)

	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Error("expected error for nil series")
	}
	if _, err := New(series, Config{InitialBalance: 0, FeeRate: 0.001, WindowSize: 2}); err == nil {
		t.Error("expected error for zero balance")
	}
	if _, err := New(series, Config{InitialBalance: 10000, FeeRate: -0.001, WindowSize: 2}); err == nil {
		t.Error("expected error for negative fee")
	}
	if _, err := New(series, Config{InitialBalance: 10000, FeeRate: 0.001, WindowSize: 0}); err == nil {
		t.Error("expected error for zero window")
	}
	// Default window of 50 cannot fit in 5 bars.
	if _, err := New(series, DefaultConfig()); err == nil {
		t.Error("expected error for series shorter than window")
	}
}

func TestResetState(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 110, 121, 133.1)

	obs := s.Reset()
	if len(obs) != 2 {
		t.Fatalf("observation rows = %d, want 2", len(obs))
	}
	if len(obs[0]) != 1+4 {
		t.Fatalf("observation width = %d, want 5", len(obs[0]))
	}

	if s.Equity() != 10000 {
		t.Errorf("equity = %v, want 10000", s.Equity())
	}
	if s.Position() != 0 {
		t.Errorf("position = %v, want 0", s.Position())
	}
	if s.PositionSize() != 0.1 {
		t.Errorf("size = %v, want 0.1", s.PositionSize())
	}
	if len(s.Trades()) != 0 {
		t.Errorf("trades = %d, want 0", len(s.Trades()))
	}
	if s.Done() {
		t.Error("fresh episode reports done")
	}

	// Portfolio scalars occupy the last four columns of every row.
	row := obs[0]
	if row[1] != 0 || row[2] != 0.1 || row[3] != 1 || row[4] != 0 {
		t.Errorf("portfolio scalars = %v, want [0 0.1 1 0]", row[1:])
	}
}

func TestHoldingFlatIsFree(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 110, 121, 133.1)

	_, reward, done, info := s.Step(Action{TargetPosition: 0, TargetSize: 0.1})
	if reward != 0 {
		t.Errorf("reward = %v, want 0", reward)
	}
	if done {
		t.Error("episode ended on first step")
	}
	if info.Equity != 10000 {
		t.Errorf("equity = %v, want 10000", info.Equity)
	}
	if info.TotalTrades != 0 {
		t.Errorf("trades = %d, want 0", info.TotalTrades)
	}
}

func TestRebalanceChargesCommission(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 110, 121, 133.1)

	// Flat bar, so the only equity change is the commission on the
	// full-turnover rebalance: |1.0*1.0 - 0| * 10000 * 0.001 = 10.
	_, reward, _, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})
	if !approxEqual(info.Equity, 9990, 1e-9) {
		t.Errorf("equity = %v, want 9990", info.Equity)
	}
	if !approxEqual(reward, -0.1, 1e-9) {
		t.Errorf("reward = %v, want -0.1", reward)
	}

	trades := s.Trades()
	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Step != 2 || tr.Price != 100 || tr.Position != 1 || tr.Size != 1 {
		t.Errorf("trade record = %+v", tr)
	}
	if !approxEqual(tr.Commission, 10, 1e-9) {
		t.Errorf("commission = %v, want 10", tr.Commission)
	}
	if !approxEqual(tr.Equity, 9990, 1e-9) {
		t.Errorf("trade equity = %v, want 9990", tr.Equity)
	}

	// Next bar rallies 10%; the position held into it earns in full.
	_, reward, done, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})
	if !approxEqual(reward, 10, 1e-9) {
		t.Errorf("reward = %v, want 10", reward)
	}
	if !approxEqual(info.Equity, 10989, 1e-6) {
		t.Errorf("equity = %v, want 10989", info.Equity)
	}
	if info.TotalTrades != 1 {
		t.Errorf("trades = %d, want 1 after hold", info.TotalTrades)
	}
	if done {
		t.Error("episode ended early")
	}
	if info.Step != 4 || info.Price != 121 {
		t.Errorf("info step/price = %d/%v, want 4/121", info.Step, info.Price)
	}
}

func TestRewardScoresHeldExposure(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 110, 121, 133.1, 146.41)

	s.Step(Action{TargetPosition: 1, TargetSize: 1})
	s.Step(Action{TargetPosition: 1, TargetSize: 1})

	// Flip to short on a +10% bar. The long held into the bar earns
	// the move; the flip itself only shows up as commission.
	equityBefore := s.Equity()
	_, reward, _, _ := s.Step(Action{TargetPosition: -1, TargetSize: 1})

	grown := equityBefore * 1.1
	commission := 2 * grown * 0.001
	want := (0.1 - commission/10000) * 100
	if !approxEqual(reward, want, 1e-9) {
		t.Errorf("reward = %v, want %v", reward, want)
	}
	if reward <= 0 {
		t.Errorf("reward = %v, want positive for a held long on an up bar", reward)
	}
	if s.Position() != -1 {
		t.Errorf("position = %v, want -1 after flip", s.Position())
	}
}

func TestHysteresisSkipsSmallDeltas(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 100, 100, 100, 100)

	// Deltas of exactly 0.1 stay below the rebalance trigger.
	s.Step(Action{TargetPosition: 0.1, TargetSize: 0.2})
	if len(s.Trades()) != 0 {
		t.Fatalf("trade executed on deltas of exactly 0.1")
	}
	if s.Position() != 0 || s.PositionSize() != 0.1 {
		t.Errorf("state drifted without a trade: pos=%v size=%v", s.Position(), s.PositionSize())
	}

	// A size delta of 0.11 crosses it even with position unchanged.
	s.Step(Action{TargetPosition: 0, TargetSize: 0.21})
	if len(s.Trades()) != 1 {
		t.Fatalf("trades = %d, want 1 after crossing hysteresis", len(s.Trades()))
	}
	if s.PositionSize() != 0.21 {
		t.Errorf("size = %v, want 0.21", s.PositionSize())
	}
}

func TestActionClamping(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 100, 100, 100)

	s.Step(Action{TargetPosition: 5, TargetSize: 9})
	if s.Position() != 1 || s.PositionSize() != 1 {
		t.Errorf("clamped state = (%v, %v), want (1, 1)", s.Position(), s.PositionSize())
	}

	s.Step(Action{TargetPosition: -5, TargetSize: 0.01})
	if s.Position() != -1 || s.PositionSize() != 0.1 {
		t.Errorf("clamped state = (%v, %v), want (-1, 0.1)", s.Position(), s.PositionSize())
	}
}

func TestEquityFloorEndsEpisode(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 60, 60, 60)

	s.Step(Action{TargetPosition: 1, TargetSize: 1})
	_, reward, done, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})

	if !done {
		t.Fatal("episode survived a fall through the equity floor")
	}
	if !approxEqual(info.Equity, 5994, 1e-6) {
		t.Errorf("equity = %v, want 5994", info.Equity)
	}
	if !approxEqual(reward, -40, 1e-9) {
		t.Errorf("reward = %v, want -40", reward)
	}
}

func TestDrawdownCutoffEndsEpisode(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 200, 90, 90, 90)

	s.Step(Action{TargetPosition: 1, TargetSize: 1}) // flat bar, pay entry
	s.Step(Action{TargetPosition: 1, TargetSize: 1}) // +100% bar, new peak
	_, _, done, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})

	if !done {
		t.Fatal("episode survived a 55% drawdown")
	}
	if info.MaxDrawdown <= 0.5 {
		t.Errorf("max drawdown = %v, want > 0.5", info.MaxDrawdown)
	}
	// Equity is still above the floor, so the cutoff is what ended it.
	if info.Equity <= 7000 {
		t.Errorf("equity = %v, expected above the floor", info.Equity)
	}
}

func TestEndOfSeriesEndsEpisode(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 100, 100)

	_, _, done, _ := s.Step(Action{})
	if done {
		t.Fatal("done after first step of a 5 bar series")
	}
	_, _, done, _ = s.Step(Action{})
	if !done {
		t.Fatal("not done at the end of the series")
	}
}

func TestStepAfterDonePanics(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 100, 100)
	s.Step(Action{})
	s.Step(Action{})
	if !s.Done() {
		t.Fatal("episode should be done")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic stepping a finished episode")
		}
	}()
	s.Step(Action{})
}

func TestVolatilityNeedsFullWindow(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}
	s := newTestSim(t, closes...)

	hold := Action{TargetPosition: 1, TargetSize: 1}
	for i := 0; i < 19; i++ {
		s.Step(hold)
		if s.Volatility() != 0 {
			t.Fatalf("volatility set after %d steps, want %d", i+1, volatilityWindow)
		}
	}

	_, _, done, info := s.Step(hold)
	if done {
		t.Fatal("episode ended before the volatility window filled")
	}
	if info.Volatility <= 0 {
		t.Errorf("volatility = %v, want positive on alternating bars", info.Volatility)
	}
}

func TestMaxDrawdownNeverDecreases(t *testing.T) {
	series := market.RandomWalk(120, 100, 0, 0.02, 7)
	s, err := New(series, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	last := 0.0
	for !s.Done() {
		_, _, _, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})
		if info.MaxDrawdown < last {
			t.Fatalf("max drawdown fell from %v to %v", last, info.MaxDrawdown)
		}
		last = info.MaxDrawdown
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 60, 60, 60)
	s.Step(Action{TargetPosition: 1, TargetSize: 1})
	s.Step(Action{TargetPosition: 1, TargetSize: 1})
	if !s.Done() {
		t.Fatal("expected a finished episode")
	}

	obs := s.Reset()
	if len(obs) != 2 {
		t.Fatalf("observation rows = %d, want 2", len(obs))
	}
	if s.Equity() != 10000 || s.Position() != 0 || s.PositionSize() != 0.1 {
		t.Errorf("reset state: equity=%v pos=%v size=%v", s.Equity(), s.Position(), s.PositionSize())
	}
	if len(s.Trades()) != 0 || s.MaxDrawdown() != 0 || s.Volatility() != 0 {
		t.Errorf("history survived reset: trades=%d dd=%v vol=%v",
			len(s.Trades()), s.MaxDrawdown(), s.Volatility())
	}
	if s.Done() {
		t.Error("done survived reset")
	}
}

func TestObservationTracksPortfolio(t *testing.T) {
	s := newTestSim(t, 100, 100, 100, 110, 121, 133.1)

	obs, _, _, info := s.Step(Action{TargetPosition: 1, TargetSize: 1})
	for i, row := range obs {
		if len(row) != 5 {
			t.Fatalf("row %d width = %d, want 5", i, len(row))
		}
		if row[1] != 1 || row[2] != 1 {
			t.Errorf("row %d position scalars = %v %v, want 1 1", i, row[1], row[2])
		}
		if !approxEqual(row[3], info.Equity/10000, 1e-12) {
			t.Errorf("row %d equity ratio = %v, want %v", i, row[3], info.Equity/10000)
		}
		if row[4] != 0.01 {
			t.Errorf("row %d trade scalar = %v, want 0.01", i, row[4])
		}
	}
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/sim"
)

func closeBar(c float64) market.Bar {
	return market.Bar{Open: c, High: c, Low: c, Close: c}
}

// trendBars builds n bars stepping by step per bar, with highs and lows
// spread halfRange around the body.
func trendBars(n int, start, step, halfRange float64) []market.Bar {
	bars := make([]market.Bar, n)
	p := start
	for i := range bars {
		o, c := p, p+step
		bars[i] = market.Bar{
			Open:  o,
			High:  max(o, c) + halfRange,
			Low:   min(o, c) - halfRange,
			Close: c,
		}
		p = c
	}
	return bars
}

func feed(p Policy, bars []market.Bar) []sim.Action {
	actions := make([]sim.Action, len(bars))
	for i, b := range bars {
		actions[i] = p.Update(b)
	}
	return actions
}

func TestByName_UnknownPolicy(t *testing.T) {
	_, err := ByName("buy-the-dip", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown policy")
}

func TestByName_FreshInstances(t *testing.T) {
	warmed, err := ByName("momentum", 0)
	require.NoError(t, err)
	feed(warmed, trendBars(60, 100, 0.5, 0.1))

	fresh, err := ByName("momentum", 0)
	require.NoError(t, err)

	// A fresh instance has no indicator state, so its first decision
	// is the warmup flat.
	act := fresh.Update(closeBar(100))
	require.Equal(t, sim.Action{TargetPosition: 0, TargetSize: 0.1}, act)
}

func TestNames_SortedBuiltins(t *testing.T) {
	names := Names()
	require.IsIncreasing(t, names)
	for _, want := range []string{"hold", "momentum", "random", "trend"} {
		require.Contains(t, names, want)
	}
}

func TestRegister_Override(t *testing.T) {
	Register("always-flat", func(int64) Policy { return NewHold() })

	p, err := ByName("always-flat", 0)
	require.NoError(t, err)
	require.Equal(t, "hold", p.Name())
}

func TestHold_AlwaysFlat(t *testing.T) {
	p := NewHold()

	for _, b := range trendBars(10, 100, 2, 0.5) {
		require.Equal(t, sim.Action{TargetPosition: 0, TargetSize: 0.1}, p.Update(b))
	}
}

func TestRandom_SeedReplays(t *testing.T) {
	bars := trendBars(20, 100, 0.5, 0.1)

	a := feed(NewRandom(42), bars)
	b := feed(NewRandom(42), bars)
	require.Equal(t, a, b)

	p := NewRandom(42)
	first := feed(p, bars)
	p.Reset()
	require.Equal(t, first, feed(p, bars))
}

func TestRandom_ActionsInRange(t *testing.T) {
	p := NewRandom(7)

	for _, act := range feed(p, trendBars(200, 100, 0.1, 0.05)) {
		require.GreaterOrEqual(t, act.TargetPosition, -1.0)
		require.LessOrEqual(t, act.TargetPosition, 1.0)
		require.GreaterOrEqual(t, act.TargetSize, 0.1)
		require.LessOrEqual(t, act.TargetSize, 1.0)
	}
}

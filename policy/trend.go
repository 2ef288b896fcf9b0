package policy

import (
	"fmt"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/market/indicators"
	"github.com/rustyeddy/tradesim/sim"
)

// Trend is Momentum gated by trend strength. It takes the EMA
// direction only while the ADX reads at or above the threshold and
// the matching DI leads, and commits more size as the reading climbs.
// Weak or disputed trends leave it flat.
type Trend struct {
	fast      *indicators.EMA
	slow      *indicators.EMA
	adx       *indicators.ADX
	threshold float64
	name      string
}

func NewTrend(fastPeriod, slowPeriod, adxPeriod int, threshold float64) *Trend {
	if fastPeriod <= 0 || slowPeriod <= 0 || adxPeriod <= 0 {
		panic("policy: trend periods must be > 0")
	}
	if fastPeriod >= slowPeriod {
		panic("policy: trend requires fast period < slow period")
	}
	if threshold <= 0 {
		threshold = 20
	}
	return &Trend{
		fast:      indicators.NewEMA(fastPeriod),
		slow:      indicators.NewEMA(slowPeriod),
		adx:       indicators.NewADX(adxPeriod),
		threshold: threshold,
		name:      fmt.Sprintf("trend(%d,%d,adx%d@%.0f)", fastPeriod, slowPeriod, adxPeriod, threshold),
	}
}

func (tr *Trend) Name() string { return tr.name }

func (tr *Trend) Reset() {
	tr.fast.Reset()
	tr.slow.Reset()
	tr.adx.Reset()
}

func (tr *Trend) Update(b market.Bar) sim.Action {
	tr.fast.Update(b.Close)
	tr.slow.Update(b.Close)
	tr.adx.Update(b)

	flat := sim.Action{TargetPosition: 0, TargetSize: 0.1}
	if !tr.fast.Ready() || !tr.slow.Ready() || !tr.adx.Ready() {
		return flat
	}

	strength := tr.adx.Value()
	if strength < tr.threshold {
		return flat
	}

	// Size grows from 0.3 toward 1.0 over the thirty ADX points above
	// the threshold.
	size := 0.3 + 0.7*min((strength-tr.threshold)/30, 1)

	diff := tr.fast.Value() - tr.slow.Value()
	switch {
	case diff > 0 && tr.adx.PlusDI() >= tr.adx.MinusDI():
		return sim.Action{TargetPosition: 1, TargetSize: size}
	case diff < 0 && tr.adx.MinusDI() >= tr.adx.PlusDI():
		return sim.Action{TargetPosition: -1, TargetSize: size}
	}
	return flat
}

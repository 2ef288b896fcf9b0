package policy

import (
	"fmt"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/market/indicators"
	"github.com/rustyeddy/tradesim/sim"
)

// Momentum rides the EMA relationship: long while the fast average
// sits above the slow one, short while below, flat until both are
// warm. It emits the relation every bar rather than only on the cross
// event; the simulator's rebalance band collapses the repeats into a
// single trade per flip.
type Momentum struct {
	fast *indicators.EMA
	slow *indicators.EMA
	name string
}

func NewMomentum(fastPeriod, slowPeriod int) *Momentum {
	if fastPeriod <= 0 || slowPeriod <= 0 {
		panic("policy: momentum periods must be > 0")
	}
	if fastPeriod >= slowPeriod {
		panic("policy: momentum requires fast period < slow period")
	}
	return &Momentum{
		fast: indicators.NewEMA(fastPeriod),
		slow: indicators.NewEMA(slowPeriod),
		name: fmt.Sprintf("momentum(%d,%d)", fastPeriod, slowPeriod),
	}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Reset() {
	m.fast.Reset()
	m.slow.Reset()
}

func (m *Momentum) Update(b market.Bar) sim.Action {
	m.fast.Update(b.Close)
	m.slow.Update(b.Close)

	if !m.fast.Ready() || !m.slow.Ready() {
		return sim.Action{TargetPosition: 0, TargetSize: 0.1}
	}

	diff := m.fast.Value() - m.slow.Value()
	switch {
	case diff > 0:
		return sim.Action{TargetPosition: 1, TargetSize: 0.5}
	case diff < 0:
		return sim.Action{TargetPosition: -1, TargetSize: 0.5}
	}
	return sim.Action{TargetPosition: 0, TargetSize: 0.1}
}

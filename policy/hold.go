package policy

import (
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/sim"
)

// Hold targets a flat book every step. Starting flat, the rebalance
// band turns that into zero trades, which makes it the do-nothing
// baseline every other policy is measured against.
type Hold struct{}

func NewHold() *Hold { return &Hold{} }

func (*Hold) Name() string { return "hold" }

func (*Hold) Reset() {}

func (*Hold) Update(market.Bar) sim.Action {
	return sim.Action{TargetPosition: 0, TargetSize: 0.1}
}

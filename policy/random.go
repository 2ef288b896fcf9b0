package policy

import (
	"math/rand"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/sim"
)

// Random draws uniform targets each bar. Runs with the same seed
// replay the same action stream, so it doubles as a churn-heavy
// fixture in tests.
type Random struct {
	seed int64
	rng  *rand.Rand
}

func NewRandom(seed int64) *Random {
	r := &Random{seed: seed}
	r.Reset()
	return r
}

func (r *Random) Name() string { return "random" }

func (r *Random) Reset() {
	r.rng = rand.New(rand.NewSource(r.seed))
}

func (r *Random) Update(market.Bar) sim.Action {
	return sim.Action{
		TargetPosition: r.rng.Float64()*2 - 1,
		TargetSize:     0.1 + 0.9*r.rng.Float64(),
	}
}

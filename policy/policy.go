// Package policy holds the decision policies that drive simulator
// episodes in backtests and demos. These are deliberately simple
// stand-ins for an external decision process: the simulator consumes
// whatever actions a policy emits and does not care where they came
// from.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/sim"
)

// Policy maps the bar stream onto portfolio targets. Update is called
// once per closed bar in series order; the returned action governs the
// next simulator step, so a policy never sees the close it trades on.
// Reset rewinds internal state before an episode.
type Policy interface {
	Name() string
	Reset()
	Update(bar market.Bar) sim.Action
}

// Constructor builds a fresh policy instance. The seed feeds stochastic
// policies and is ignored by deterministic ones.
type Constructor func(seed int64) Policy

var registry = map[string]Constructor{
	"hold":     func(int64) Policy { return NewHold() },
	"random":   func(seed int64) Policy { return NewRandom(seed) },
	"momentum": func(int64) Policy { return NewMomentum(12, 26) },
	"trend":    func(int64) Policy { return NewTrend(12, 26, 14, 20) },
}

// Register installs a constructor under name, replacing any builtin
// with the same name. Meant for init-time use; the registry is not
// synchronized.
func Register(name string, mk Constructor) {
	registry[name] = mk
}

// ByName builds a registered policy. Each call returns a fresh
// instance, so concurrent runs never share indicator state.
func ByName(name string, seed int64) (Policy, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return mk(seed), nil
}

// Names lists the registered policies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package risk

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Side distinguishes long entries from short entries for level math.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of an admission check. Checks run in order and
// stop at the first failure, so Violations holds at most one entry.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Reason returns the failing message, or "" when the decision allowed.
func (d Decision) Reason() string {
	if len(d.Violations) == 0 {
		return ""
	}
	return d.Violations[0].Msg
}

// TradeIntent is a proposed order handed to CheckTrade.
type TradeIntent struct {
	Symbol string
	Side   Side
	Amount float64 // base-asset quantity
	Price  float64 // expected fill price
}

// AccountSnapshot is the caller's view of the account at decision time.
type AccountSnapshot struct {
	Balance       float64
	OpenPositions int
}

// Governor enforces Limits across a trading day: trade admission,
// position sizing, daily-loss accounting and per-symbol stop/take levels.
//
// Daily counters reset lazily. Every operation first compares the current
// date against the last reset and zeroes the counters once the day
// advances; nothing runs on a timer. Callers serialize access to a
// Governor: CheckTrade followed by RecordTrade is a read-then-write
// sequence the Governor does not make atomic.
type Governor struct {
	limits atomic.Value // Limits
	nowFn  atomic.Pointer[func() time.Time]

	dailyLoss   float64
	dailyTrades int
	lastReset   time.Time // midnight of the day the counters belong to

	positions map[string]Position
}

func NewGovernor(lim Limits) *Governor {
	g := &Governor{positions: make(map[string]Position)}
	g.limits.Store(lim)

	now := time.Now
	g.nowFn.Store(&now)
	g.lastReset = dateOf(g.now())
	return g
}

// SetNowFunc overrides the time provider (useful for tests). Passing nil
// restores time.Now.
func (g *Governor) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		now := time.Now
		g.nowFn.Store(&now)
		return
	}
	g.nowFn.Store(&fn)
}

func (g *Governor) now() time.Time {
	return (*g.nowFn.Load())()
}

// SetLimits swaps the active limits record. Takes effect on the next call.
func (g *Governor) SetLimits(lim Limits) {
	g.limits.Store(lim)
}

// Limits returns the active limits record.
func (g *Governor) Limits() Limits {
	return g.limits.Load().(Limits)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (g *Governor) resetIfNewDay() {
	today := dateOf(g.now())
	if today.After(g.lastReset) {
		g.dailyLoss = 0
		g.dailyTrades = 0
		g.lastReset = today
	}
}

// CheckTrade admits or rejects a proposed trade. Checks run in order and
// the decision carries the first failure only.
func (g *Governor) CheckTrade(intent TradeIntent, acct AccountSnapshot) Decision {
	g.resetIfNewDay()

	lim := g.Limits()
	d := Decision{Allowed: true}

	if acct.Balance < lim.MinBalance {
		d.add("BELOW_MIN_BALANCE",
			fmt.Sprintf("balance %.2f below minimum %.2f", acct.Balance, lim.MinBalance))
		return d
	}

	value := intent.Amount * intent.Price
	if value > lim.MaxPositionSize {
		d.add("POSITION_TOO_LARGE",
			fmt.Sprintf("position value %.2f exceeds max %.2f", value, lim.MaxPositionSize))
		return d
	}

	if acct.OpenPositions >= lim.MaxOpenPositions {
		d.add("TOO_MANY_OPEN_POSITIONS",
			fmt.Sprintf("open positions %d >= max %d", acct.OpenPositions, lim.MaxOpenPositions))
		return d
	}

	// Both sides carry the same MaxRiskPerTrade factor, so this bound
	// collapses to value > balance. Kept in weighted form; PositionSize
	// holds the effective per-trade constraint.
	risk := value * (lim.MaxRiskPerTrade / 100)
	maxRisk := acct.Balance * (lim.MaxRiskPerTrade / 100)
	if risk > maxRisk {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("trade risk %.2f exceeds max %.2f", risk, maxRisk))
		return d
	}

	return d
}

// PositionSize returns the tighter of the risk-based and the absolute
// notional bound, in base-asset units. riskPct <= 0 falls back to
// Limits.MaxRiskPerTrade.
func (g *Governor) PositionSize(price, balance, riskPct float64) float64 {
	g.resetIfNewDay()

	if price <= 0 {
		return 0
	}
	lim := g.Limits()
	if riskPct <= 0 {
		riskPct = lim.MaxRiskPerTrade
	}

	riskBased := balance * (riskPct / 100) / price
	capBased := lim.MaxPositionSize / price
	return math.Min(riskBased, capBased)
}

// CheckDailyLoss gates a prospective realized loss against the remaining
// daily budget. Profits and flat results always pass.
func (g *Governor) CheckDailyLoss(pnl float64) Decision {
	g.resetIfNewDay()

	d := Decision{Allowed: true}
	if pnl >= 0 {
		return d
	}

	lim := g.Limits()
	if g.dailyLoss-pnl > lim.MaxDailyLoss {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("daily loss %.2f would exceed max %.2f", g.dailyLoss-pnl, lim.MaxDailyLoss))
	}
	return d
}

// RecordTrade folds a realized result into the daily counters.
func (g *Governor) RecordTrade(pnl float64) {
	g.resetIfNewDay()

	g.dailyTrades++
	if pnl < 0 {
		g.dailyLoss += -pnl
	}
}

// ShouldStopTrading reports whether the daily loss budget is exhausted.
func (g *Governor) ShouldStopTrading() bool {
	g.resetIfNewDay()
	return g.dailyLoss >= g.Limits().MaxDailyLoss
}

// DailyStats is a point-in-time view of the day's counters.
type DailyStats struct {
	Date          time.Time
	Loss          float64
	Trades        int
	MaxDailyLoss  float64
	RemainingLoss float64
}

func (g *Governor) DailyStats() DailyStats {
	g.resetIfNewDay()

	lim := g.Limits()
	remaining := lim.MaxDailyLoss - g.dailyLoss
	if remaining < 0 {
		remaining = 0
	}
	return DailyStats{
		Date:          g.lastReset,
		Loss:          g.dailyLoss,
		Trades:        g.dailyTrades,
		MaxDailyLoss:  lim.MaxDailyLoss,
		RemainingLoss: remaining,
	}
}

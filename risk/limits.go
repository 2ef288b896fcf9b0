package risk

// Limits is the flat risk configuration the Governor enforces. Fields are
// account-currency amounts unless the name says percent. The record is
// hot-swappable: replace the whole thing via Governor.SetLimits and the
// next call sees the new values, nothing is cached.
type Limits struct {
	MaxPositionSize  float64 `json:"max_position_size" yaml:"max_position_size"`   // per-trade notional cap
	MaxDailyLoss     float64 `json:"max_daily_loss" yaml:"max_daily_loss"`         // realized loss budget per day
	MaxRiskPerTrade  float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"` // percent of balance
	StopLossPct      float64 `json:"stop_loss_percent" yaml:"stop_loss_percent"`
	TakeProfitPct    float64 `json:"take_profit_percent" yaml:"take_profit_percent"`
	MaxLeverage      float64 `json:"max_leverage" yaml:"max_leverage"`
	MinBalance       float64 `json:"min_balance" yaml:"min_balance"`
	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions"`
}

// DefaultLimits returns the small spot-account profile: $1000 notional
// cap, $500/day loss budget, 2% risk per trade, 5%/10% stop and take.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize:  1000,
		MaxDailyLoss:     500,
		MaxRiskPerTrade:  2.0,
		StopLossPct:      5.0,
		TakeProfitPct:    10.0,
		MaxLeverage:      1.0,
		MinBalance:       1000,
		MaxOpenPositions: 5,
	}
}

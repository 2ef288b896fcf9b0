package sim

// TradeRecord is one executed rebalance. Records are append-only over
// an episode; a journal can persist them verbatim.
type TradeRecord struct {
	Step       int     // bar index the rebalance executed on
	Price      float64 // close used as the new entry price
	Position   float64 // direction after the rebalance
	Size       float64 // size after the rebalance
	Commission float64 // fee charged for the turnover
	Equity     float64 // equity after P&L and commission
}

// Info is the diagnostic payload returned alongside each step's reward.
// It mirrors the simulator's internal state at the end of the step and
// is safe to retain across steps.
type Info struct {
	Equity         float64
	TotalReturnPct float64
	Position       float64
	PositionSize   float64
	MaxDrawdown    float64
	TotalTrades    int
	Price          float64 // close at the advanced cursor, the next bar to be consumed
	Step           int
	Volatility     float64
}

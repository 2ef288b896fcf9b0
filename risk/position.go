package risk

// Position is the Governor's per-symbol risk view. UpdatePosition rebuilds
// the whole record from its inputs every call; nothing is mutated
// incrementally, so a stale field cannot survive a price update.
type Position struct {
	Symbol        string
	EntryPrice    float64
	CurrentPrice  float64
	Quantity      float64
	UnrealizedPnL float64
	UnrealizedPct float64
	StopLoss      float64 // trigger price, derived for a long entry
	TakeProfit    float64 // trigger price, derived for a long entry
}

// UpdatePosition refreshes the stored risk view for symbol and returns
// the new record. Trigger prices are derived for a long entry; the
// short-side trigger direction is unresolved, see Position.HitStopLoss.
func (g *Governor) UpdatePosition(symbol string, entry, current, quantity float64) Position {
	g.resetIfNewDay()

	pnl := (current - entry) * quantity
	pct := 0.0
	if entry != 0 {
		pct = (current - entry) / entry * 100
	}

	p := Position{
		Symbol:        symbol,
		EntryPrice:    entry,
		CurrentPrice:  current,
		Quantity:      quantity,
		UnrealizedPnL: pnl,
		UnrealizedPct: pct,
		StopLoss:      g.StopLossPrice(entry, Long),
		TakeProfit:    g.TakeProfitPrice(entry, Long),
	}
	g.positions[symbol] = p
	return p
}

// Position returns the stored risk view for symbol, if any.
func (g *Governor) Position(symbol string) (Position, bool) {
	p, ok := g.positions[symbol]
	return p, ok
}

// HitStopLoss reports whether the current price sits at or through the
// stop trigger. The comparison direction is the long-side one; short
// entries get mirrored prices from StopLossPrice but share this check.
func (p Position) HitStopLoss() bool {
	return p.CurrentPrice <= p.StopLoss
}

// HitTakeProfit reports whether the current price sits at or through the
// profit trigger, long-side direction as above.
func (p Position) HitTakeProfit() bool {
	return p.CurrentPrice >= p.TakeProfit
}

package risk

// StopLossPrice computes the protective exit for an entry: below entry
// for a long, mirrored above for a short, per Limits.StopLossPct.
func (g *Governor) StopLossPrice(entry float64, side Side) float64 {
	g.resetIfNewDay()

	pct := g.Limits().StopLossPct / 100
	if side == Short {
		return entry * (1 + pct)
	}
	return entry * (1 - pct)
}

// TakeProfitPrice computes the profit target for an entry: above entry
// for a long, mirrored below for a short, per Limits.TakeProfitPct.
func (g *Governor) TakeProfitPrice(entry float64, side Side) float64 {
	g.resetIfNewDay()

	pct := g.Limits().TakeProfitPct / 100
	if side == Short {
		return entry * (1 - pct)
	}
	return entry * (1 + pct)
}

package sim

import "math"

// updateStats folds one step's equity change into the running peak,
// drawdown and trailing-return window. oldEquity is the equity before
// the step's P&L was applied, so the recorded return includes both the
// mark-to-market move and any commission paid.
func (s *Simulator) updateStats(oldEquity float64) {
	if s.equity > s.peak {
		s.peak = s.equity
	}
	dd := (s.peak - s.equity) / s.peak
	if dd > s.maxDrawdown {
		s.maxDrawdown = dd
	}

	ret := 0.0
	if oldEquity > 0 {
		ret = (s.equity - oldEquity) / oldEquity
	}
	s.returns = append(s.returns, ret)
	if len(s.returns) > volatilityWindow {
		copy(s.returns, s.returns[1:])
		s.returns = s.returns[:volatilityWindow]
	}
	if len(s.returns) >= volatilityWindow {
		s.volatility = stdDev(s.returns)
	}
}

// stdDev is the population standard deviation.
func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

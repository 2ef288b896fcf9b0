package sim

// Observation is the policy's view at the current cursor: WindowSize
// rows of per-bar features, each row extended with four portfolio
// scalars broadcast across the window (position, position size,
// equity as a fraction of the starting balance, and trade count
// scaled by 1/100). Row width is the series' FeatureDim plus four.
type Observation [][]float64

func (s *Simulator) observation() Observation {
	window := s.series.Window(s.cursor, s.cfg.WindowSize)

	obs := make(Observation, len(window))
	for i, bar := range window {
		row := make([]float64, 0, len(bar.Features)+4)
		row = append(row, bar.Features...)
		row = append(row,
			s.position,
			s.size,
			s.equity/s.cfg.InitialBalance,
			float64(len(s.trades))/100,
		)
		obs[i] = row
	}
	return obs
}

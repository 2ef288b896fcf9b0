package market

import "time"

// Bar is one time step of a single-asset price series. Features carries
// the exogenous per-bar signals produced upstream (indicators, spreads,
// whatever the data pipeline emits); the simulator reads Close for P&L
// and hands the feature rows to the policy as the observation payload.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Features []float64
}

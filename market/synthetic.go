package market

import (
	"math/rand"
	"time"
)

// RandomWalk builds a synthetic hourly series for demos and tests. Prices
// follow a seeded geometric random walk; each bar carries two features,
// the per-bar return and a normalized volume, so observations have
// something to look at.
func RandomWalk(n int, start, drift, vol float64, seed int64) *Series {
	if n < 2 {
		n = 2
	}
	if start <= 0 {
		start = 100
	}

	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]Bar, n)
	price := start
	for i := range bars {
		ret := drift + vol*rng.NormFloat64()
		if ret < -0.5 {
			ret = -0.5
		}
		next := price * (1 + ret)

		high := price
		low := next
		if next > price {
			high, low = next, price
		}
		volume := 1000 + 500*rng.Float64()

		bars[i] = Bar{
			Time:     base.Add(time.Duration(i) * time.Hour),
			Open:     price,
			High:     high * (1 + 0.001*rng.Float64()),
			Low:      low * (1 - 0.001*rng.Float64()),
			Close:    next,
			Volume:   volume,
			Features: []float64{ret, volume / 1500},
		}
		price = next
	}

	return &Series{bars: bars, featureDim: 2}
}

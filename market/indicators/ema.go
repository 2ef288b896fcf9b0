// Package indicators holds the streaming indicators the decision
// policies build on. Each one consumes closed bars in order and
// reports Ready once its warmup is behind it.
package indicators

// EMA is an exponential moving average over close prices.
type EMA struct {
	n     int
	alpha float64

	seen  int
	value float64
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("indicators: EMA period must be > 0")
	}
	return &EMA{n: period, alpha: 2.0 / float64(period+1)}
}

func (e *EMA) Warmup() int    { return e.n }
func (e *EMA) Ready() bool    { return e.seen >= e.n }
func (e *EMA) Value() float64 { return e.value }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
}

// Update consumes the next close. The first close seeds the average.
func (e *EMA) Update(close float64) {
	e.seen++
	if e.seen == 1 {
		e.value = close
		return
	}
	e.value = e.alpha*close + (1-e.alpha)*e.value
}

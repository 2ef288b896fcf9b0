package market

import (
	"errors"
	"fmt"
)

// Series is an ordered single-asset bar sequence. Gaps are expected to be
// pre-filled upstream; NewSeries validates ordering and closes but never
// interpolates.
type Series struct {
	bars       []Bar
	featureDim int
}

func NewSeries(bars []Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, errors.New("market: empty series")
	}

	dim := len(bars[0].Features)
	for i, b := range bars {
		if b.Close <= 0 {
			return nil, fmt.Errorf("market: bar %d has non-positive close %v", i, b.Close)
		}
		if len(b.Features) != dim {
			return nil, fmt.Errorf("market: bar %d has %d features, want %d", i, len(b.Features), dim)
		}
		if i > 0 && !bars[i-1].Time.Before(b.Time) {
			return nil, fmt.Errorf("market: bar %d time %s not after previous bar", i, b.Time)
		}
	}

	return &Series{bars: bars, featureDim: dim}, nil
}

func (s *Series) Len() int { return len(s.bars) }

func (s *Series) Bar(i int) Bar { return s.bars[i] }

func (s *Series) Close(i int) float64 { return s.bars[i].Close }

// FeatureDim is the uniform per-bar feature width (may be zero).
func (s *Series) FeatureDim() int { return s.featureDim }

// Window returns the n bars ending just before index end, i.e. [end-n, end).
func (s *Series) Window(end, n int) []Bar {
	return s.bars[end-n : end]
}

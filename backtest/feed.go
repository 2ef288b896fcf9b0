package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/tradesim/market"
)

// LoadCSV reads a bar dataset into a Series. Rows are
//
//	time,open,high,low,close,volume[,feature...]
//
// where time is RFC3339 or unix seconds. A header row is tolerated,
// short rows are skipped, and files ending in .xz are decompressed on
// the fly. When from or to are set, bars outside [from, to) are
// dropped.
func LoadCSV(path string, from, to time.Time) (*market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz stream %s: %w", path, err)
		}
		r = xr
	}

	s, err := ReadBars(r, from, to)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

// ReadBars parses bar CSV rows from r. Extra columns beyond volume
// become per-bar features; the column count must be consistent or the
// series constructor rejects the result.
func ReadBars(r io.Reader, from, to time.Time) (*market.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []market.Bar
	sawFirst := false
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		if !ok || !inRange(b.Time, from, to) {
			continue
		}
		bars = append(bars, b)
	}

	return market.NewSeries(bars)
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	// Need at least: time,open,high,low,close,volume
	if len(row) < 6 {
		return market.Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, false, nil
	}
	t, err := parseTime(ts)
	if err != nil {
		return market.Bar{}, false, err
	}

	vals := make([]float64, len(row)-1)
	for i, cell := range row[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad value %q in column %d: %w", cell, i+1, err)
		}
		vals[i] = v
	}

	return market.Bar{
		Time:     t,
		Open:     vals[0],
		High:     vals[1],
		Low:      vals[2],
		Close:    vals[3],
		Volume:   vals[4],
		Features: vals[5:],
	}, true, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// WriteBars writes a series in the schema ReadBars accepts: a header
// row, then one row per bar with RFC3339 times and any feature
// columns after the volume. Floats use the shortest representation
// that reads back exactly.
func WriteBars(w io.Writer, series *market.Series) error {
	cw := csv.NewWriter(w)

	header := []string{"time", "open", "high", "low", "close", "volume"}
	for i := 0; i < series.FeatureDim(); i++ {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < series.Len(); i++ {
		b := series.Bar(i)
		row := []string{
			b.Time.UTC().Format(time.RFC3339),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		for _, f := range b.Features {
			row = append(row, formatFloat(f))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

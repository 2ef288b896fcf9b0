package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	assert.NoError(t, err)

	return j, tradesPath, equityPath
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	j, tradesPath, equityPath := newTestCSV(t)
	assert.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	equity := readCSV(t, equityPath)

	assert.Equal(t, []string{"run_id", "step", "price", "position", "size", "commission", "equity"}, trades[0])
	assert.Equal(t, []string{"run_id", "step", "equity"}, equity[0])
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	j, tradesPath, _ := newTestCSV(t)

	err := j.RecordTrade(TradeRow{
		RunID:      "R1",
		Step:       52,
		Price:      101.25,
		Position:   -1,
		Size:       0.5,
		Commission: 5.0625,
		Equity:     9994.9375,
	})
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	assert.Len(t, rows, 2)

	want := []string{
		"R1",
		"52",
		"101.250000",
		"-1.000000",
		"0.500000",
		"5.062500",
		"9994.937500",
	}
	assert.Equal(t, want, rows[1])
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	j, _, equityPath := newTestCSV(t)

	assert.NoError(t, j.RecordEquity(EquityPoint{RunID: "R1", Step: 50, Equity: 10000}))
	assert.NoError(t, j.RecordEquity(EquityPoint{RunID: "R1", Step: 51, Equity: 10012.5}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, equityPath)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"R1", "50", "10000.000000"}, rows[1])
	assert.Equal(t, []string{"R1", "51", "10012.500000"}, rows[2])
}

//go:build blackbox

package blackbox

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// writeRampCSV writes n hourly bars whose closes grow by a fixed
// fraction each bar, so a momentum policy goes long exactly once.
func writeRampCSV(t *testing.T, path string, n int, start, growth float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("time,open,high,low,close,volume\n")

	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	price := start
	for i := 0; i < n; i++ {
		next := price * (1 + growth)
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,%d\n",
			base.Add(time.Duration(i)*time.Hour).Format(time.RFC3339),
			price, next*1.001, price*0.999, next, 1000+i)
		price = next
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func countRows(t *testing.T, dbPath, table, runID string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE run_id = ?", table)
	if err := db.QueryRow(q, runID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

// runCreatedDay reads a run's creation time back from the journal and
// returns its local calendar day, keeping the day query deterministic
// near midnight.
func runCreatedDay(t *testing.T, dbPath, runID string) string {
	t.Helper()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var created time.Time
	err = db.QueryRow("SELECT created FROM runs WHERE run_id = ?", runID).Scan(&created)
	if err != nil {
		t.Fatal(err)
	}
	return created.In(time.Local).Format("2006-01-02")
}

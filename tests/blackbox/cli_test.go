//go:build blackbox

package blackbox

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	out := run(t, "version")
	if !strings.Contains(out, "tradesim version 0.1.0") {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}

func TestConfigInitValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradesim.yaml")

	out := run(t, "config", "init", "-o", path)
	if !strings.Contains(out, "Created default configuration") {
		t.Fatalf("init did not confirm:\n%s", out)
	}

	out = run(t, "config", "validate", "-f", path)
	for _, want := range []string{
		"Configuration valid",
		"Policy: momentum (seed 42)",
		"Execution: paper",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestDemoEpisode(t *testing.T) {
	out := run(t, "demo", "episode")
	for _, want := range []string{
		"=== Episode Demo ===",
		"Episode done after",
		"Final equity",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("episode demo missing %q:\n%s", want, out)
		}
	}
}

func TestDemoRisk(t *testing.T) {
	out := run(t, "demo", "risk")
	for _, want := range []string{
		"allowed: true",
		"allowed: false",
		"stop loss hit: true",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("risk demo missing %q:\n%s", want, out)
		}
	}
}

func TestTradePaperBuy(t *testing.T) {
	out := run(t, "trade", "-s", "BUY", "-i", "BTCUSDT", "-p", "50000", "-b", "10000")
	// Risk sizing: 2% of the balance at the stated price.
	for _, want := range []string{
		`"status": "executed"`,
		`"amount": 0.004`,
		`"mode": "paper"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("buy result missing %q:\n%s", want, out)
		}
	}
}

func TestTradePaperSellHeld(t *testing.T) {
	// Selling sizes from the held position, not from the balance.
	out := run(t, "trade", "-s", "SELL", "-i", "ETHUSDT",
		"--held", "0.2", "--entry", "3200", "-p", "3150")
	for _, want := range []string{
		`"status": "executed"`,
		`"amount": 0.2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sell result missing %q:\n%s", want, out)
		}
	}
}

func TestTradeHoldSkips(t *testing.T) {
	out := run(t, "trade", "-s", "HOLD", "-i", "BTCUSDT")
	if !strings.Contains(out, `"status": "skipped"`) {
		t.Fatalf("hold should skip:\n%s", out)
	}
}

func TestTradeRejectedBelowMinBalance(t *testing.T) {
	out := run(t, "trade", "-s", "BUY", "-i", "BTCUSDT", "-p", "50000", "-b", "500")
	for _, want := range []string{
		`"status": "rejected"`,
		"below minimum",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("underfunded buy should be rejected (%q):\n%s", want, out)
		}
	}
}

package perf

import (
	"fmt"
	"strings"
)

// Summary renders the metrics as an aligned text block for terminal
// output.
func (m Metrics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final balance   %12.2f\n", m.FinalBalance)
	fmt.Fprintf(&b, "Total return    %12.2f  (%.2f%%)\n", m.TotalReturn, m.TotalReturnPct)
	fmt.Fprintf(&b, "Sharpe ratio    %12.2f\n", m.SharpeRatio)
	fmt.Fprintf(&b, "Max drawdown    %11.2f%%\n", m.MaxDrawdown)
	fmt.Fprintf(&b, "Win rate        %11.1f%%\n", m.WinRate)
	fmt.Fprintf(&b, "Profit factor   %12.2f\n", m.ProfitFactor)
	fmt.Fprintf(&b, "Trades          %12d\n", m.TotalTrades)
	return b.String()
}

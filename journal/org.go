package journal

import (
	"io"
	"text/template"
	"time"
)

// maxOrgTrades caps the per-trade table in a report; longer runs get
// a count of the rows left out.
const maxOrgTrades = 20

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(
	template.New("run").Funcs(orgFuncs).Parse(runOrgTemplate))

type orgData struct {
	Run       Run
	Trades    []TradeRow
	Truncated int
}

// WriteOrg renders a run and its trades as an org-mode block.
func WriteOrg(w io.Writer, run Run, trades []TradeRow) error {
	data := orgData{Run: run, Trades: trades}
	if len(trades) > maxOrgTrades {
		data.Trades = trades[:maxOrgTrades]
		data.Truncated = len(trades) - maxOrgTrades
	}
	return orgTemplate.Execute(w, data)
}

// ExportOrg loads a run and its trades and renders the org report.
func (j *SQLite) ExportOrg(w io.Writer, runID string) error {
	run, err := j.GetRun(runID)
	if err != nil {
		return err
	}
	trades, err := j.TradesForRun(runID)
	if err != nil {
		return err
	}
	return WriteOrg(w, run, trades)
}

const runOrgTemplate = `* RUN: {{.Run.Policy}} {{.Run.Symbol}}
:PROPERTIES:
:RUN_ID:      {{.Run.RunID}}
:POLICY:      {{.Run.Policy}}
:SYMBOL:      {{.Run.Symbol}}
:BARS:        {{.Run.Bars}}
:WINDOW:      {{.Run.WindowSize}}
:FEE_RATE:    {{printf "%.4f" .Run.FeeRate}}
:START_BAL:   {{printf "%.2f" .Run.InitialBalance}}
:END_BAL:     {{printf "%.2f" .Run.Results.FinalBalance}}
:RETURN_PCT:  {{printf "%.2f" .Run.Results.TotalReturnPct}}
:SHARPE:      {{printf "%.2f" .Run.Results.SharpeRatio}}
:MAX_DD_PCT:  {{printf "%.2f" .Run.Results.MaxDrawdown}}
:WIN_RATE:    {{printf "%.1f" .Run.Results.WinRate}}
:PROFIT_FAC:  {{printf "%.2f" .Run.Results.ProfitFactor}}
:TRADES:      {{.Run.Results.TotalTrades}}
:CREATED:     [{{(orTime .Run.Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:       *{{printf "%.2f" .Run.Results.TotalReturn}}*
- Return:        *{{printf "%.2f" .Run.Results.TotalReturnPct}}%*
- Sharpe:        *{{printf "%.2f" .Run.Results.SharpeRatio}}*
- Max Drawdown:  *{{printf "%.2f" .Run.Results.MaxDrawdown}}%*
- Win Rate:      *{{printf "%.1f" .Run.Results.WinRate}}%*
- Profit Factor: *{{printf "%.2f" .Run.Results.ProfitFactor}}*

** Trades
{{- if .Trades}}
| Step | Price | Position | Size | Commission | Equity |
|------+-------+----------+------+------------+--------|
{{- range .Trades}}
| {{.Step}} | {{printf "%.4f" .Price}} | {{printf "%.2f" .Position}} | {{printf "%.2f" .Size}} | {{printf "%.4f" .Commission}} | {{printf "%.2f" .Equity}} |
{{- end}}
{{- if .Truncated}}
({{.Truncated}} more not shown)
{{- end}}
{{- else}}
(no trades executed)
{{- end}}
`

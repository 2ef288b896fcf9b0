package perf

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// WriteEquityChart renders the equity curve as a self-contained HTML
// page, one point per step. Pair it with Metrics.Summary for a full
// report.
func WriteEquityChart(w io.Writer, title string, equity []float64) error {
	if len(equity) == 0 {
		return fmt.Errorf("perf: empty equity curve")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: title,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Left: "left"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	xs := make([]int, len(equity))
	ys := make([]opts.LineData, len(equity))
	for i, e := range equity {
		xs[i] = i
		ys[i] = opts.LineData{Value: e}
	}
	line.SetXAxis(xs)
	line.AddSeries("equity", ys)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render equity chart: %w", err)
	}
	return nil
}

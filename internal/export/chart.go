package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/autodrive/internal/drive"
	"github.com/san-kum/autodrive/internal/sim"
)

// WriteChart renders an HTML page with the pose over time and the path
// across the field. states and times are parallel, as stored.
func WriteChart(w io.Writer, title string, times []float64, states [][]float64) error {
	if len(states) < 2 || len(times) != len(states) {
		return ErrShortPath
	}

	labels := make([]string, len(times))
	xs := make([]opts.LineData, len(states))
	ys := make([]opts.LineData, len(states))
	hs := make([]opts.LineData, len(states))
	path := make([]opts.ScatterData, 0, len(states))
	for i, s := range states {
		labels[i] = fmt.Sprintf("%.2f", times[i])
		if len(s) <= sim.StateHeading {
			continue
		}
		xs[i] = opts.LineData{Value: s[sim.StateX]}
		ys[i] = opts.LineData{Value: s[sim.StateY]}
		hs[i] = opts.LineData{Value: drive.Degrees(s[sim.StateHeading])}
		path = append(path, opts.ScatterData{Value: []interface{}{s[sim.StateX], s[sim.StateY]}})
	}

	pose := charts.NewLine()
	pose.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "pose over time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
	)
	pose.SetXAxis(labels).
		AddSeries("x (in)", xs).
		AddSeries("y (in)", ys).
		AddSeries("heading (deg)", hs)

	field := charts.NewScatter()
	field.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "path"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x (in)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y (in)", NameLocation: "middle", NameGap: 30}),
	)
	field.AddSeries("path", path, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	page := components.NewPage()
	page.AddCharts(pose, field)
	return page.Render(w)
}

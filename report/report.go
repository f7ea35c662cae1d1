// Package report renders an interactive HTML overview of a ride, one line
// chart per chart kind, written to a local file.
package report

import (
	"io"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ridegraph/ridegraph/chart"
)

// MaxPointsPerSeries bounds the payload the same way the raster renderer
// bounds its draw calls.
const MaxPointsPerSeries = 2000

// Write renders one page with every chart kind the dataset can populate.
func Write(w io.Writer, master *chart.Dataset, title string) error {
	if master.Empty() {
		return merry.New("nothing to report: dataset is empty")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	vp := chart.ComputeViewport(len(master.Timestamps), MaxPointsPerSeries)
	indices := vp.Indices()

	xLabels := make([]string, len(indices))
	for i, idx := range indices {
		xLabels[i] = time.UnixMilli(master.Timestamps[idx]).Format("15:04:05")
	}

	added := 0
	for _, kind := range chart.AllKinds {
		spec := chart.Spec(kind)
		ds := spec.Dataset(master)
		if ds.Empty() {
			continue
		}
		page.AddCharts(lineChart(title, spec, ds, indices, xLabels))
		added++
	}
	if added == 0 {
		return merry.New("nothing to report: no known series in dataset")
	}
	return page.Render(w)
}

func lineChart(title string, spec chart.KindSpec, ds *chart.Dataset, indices []int, xLabels []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1200px", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
	)
	line.SetXAxis(xLabels)

	for _, s := range ds.Series {
		data := make([]opts.LineData, len(indices))
		for i, idx := range indices {
			v := s.Values[idx]
			if chart.IsAbsent(v) {
				// echarts skips nil values, matching the gap behavior
				data[i] = opts.LineData{Value: nil}
			} else {
				data[i] = opts.LineData{Value: v}
			}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ConnectNulls: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}
	return line
}

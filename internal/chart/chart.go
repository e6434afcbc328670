// Package chart renders a dataset as an interactive HTML line chart.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"covidstat/internal/model"
)

// Series names, in plotting order.
var Series = []string{"Confirmed", "Deaths", "Recovered", "Active"}

// Title returns the chart title for country.
func Title(country string) string {
	return "COVID-19 Trends in " + model.DisplayName(country)
}

// NewLine builds the four-series line chart for ds.
func NewLine(ds *model.Dataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title(ds.Country),
			Width:     "100%",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{Title: Title(ds.Country)}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cases"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	dates := make([]string, ds.Len())
	columns := make([][]opts.LineData, len(Series))
	for i := range columns {
		columns[i] = make([]opts.LineData, ds.Len())
	}
	for i, r := range ds.Records {
		dates[i] = r.Date.Format(model.DateLayout)
		columns[0][i] = opts.LineData{Value: r.Confirmed}
		columns[1][i] = opts.LineData{Value: r.Deaths}
		columns[2][i] = opts.LineData{Value: r.Recovered}
		columns[3][i] = opts.LineData{Value: r.Active}
	}

	line.SetXAxis(dates)
	for i, name := range Series {
		line.AddSeries(name, columns[i])
	}
	return line
}

// Render writes a standalone HTML page holding the chart.
func Render(w io.Writer, ds *model.Dataset) error {
	return NewLine(ds).Render(w)
}

// FileName returns the chart file name for country.
func FileName(country string) string {
	return model.FileStem(country) + "_covid_chart.html"
}

// WriteFile renders the chart into dir and returns the path written.
func WriteFile(dir string, ds *model.Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(ds.Country))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(f, ds); err != nil {
		f.Close()
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, f.Close()
}

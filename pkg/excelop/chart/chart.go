// Package chart renders raster (PNG) charts from tabular series data.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Series is one named numeric data column.
type Series struct {
	Name   string
	Values []float64
}

// Config describes one chart to render. Width and Height are in pixels.
type Config struct {
	Type       string // bar, column, line, pie, scatter, area
	Title      string
	Labels     []string
	Series     []Series
	Width      int
	Height     int
	ShowValues bool
}

// ErrNoData indicates the chart has no series or no values to plot.
var ErrNoData = errors.New("chart has no data")

// Render draws the configured chart and returns PNG bytes.
func Render(cfg Config) ([]byte, error) {
	if len(cfg.Series) == 0 || len(cfg.Series[0].Values) == 0 {
		return nil, ErrNoData
	}
	if cfg.Width <= 0 {
		cfg.Width = 1200
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}

	switch cfg.Type {
	case "bar", "column":
		return renderBar(cfg)
	case "pie":
		return renderPie(cfg)
	case "line", "area", "scatter":
		return renderXY(cfg)
	}
	return nil, fmt.Errorf("unsupported chart type %q", cfg.Type)
}

// renderBar plots the first series as labeled bars. go-chart bar charts are
// single-series; extra series are ignored by the caller's contract.
func renderBar(cfg Config) ([]byte, error) {
	s := cfg.Series[0]
	values := make([]gochart.Value, len(s.Values))
	for i, v := range s.Values {
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		if cfg.ShowValues {
			label = fmt.Sprintf("%s %.4g", label, v)
		}
		values[i] = gochart.Value{Value: v, Label: label}
	}
	graph := gochart.BarChart{
		Title:    cfg.Title,
		Width:    cfg.Width,
		Height:   cfg.Height,
		BarWidth: max(10, cfg.Width/(2*len(values)+1)),
		Bars:     values,
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPie(cfg Config) ([]byte, error) {
	s := cfg.Series[0]
	values := make([]gochart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		if v <= 0 {
			// Pie slices must be positive.
			continue
		}
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		values = append(values, gochart.Value{Value: v, Label: label})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	graph := gochart.PieChart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Values: values,
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderXY plots every series over the row index; scatter disables strokes
// in favor of dots, area fills under the line.
func renderXY(cfg Config) ([]byte, error) {
	var series []gochart.Series
	for i, s := range cfg.Series {
		xs := make([]float64, len(s.Values))
		for j := range s.Values {
			xs[j] = float64(j)
		}
		style := gochart.Style{}
		switch cfg.Type {
		case "scatter":
			style.StrokeWidth = gochart.Disabled
			style.DotWidth = 5
			style.DotColor = gochart.GetDefaultColor(i)
		case "area":
			base := gochart.GetDefaultColor(i)
			style.StrokeColor = base
			style.FillColor = base.WithAlpha(100)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style:   style,
		})
	}

	graph := gochart.Chart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		XAxis: gochart.XAxis{
			TickPosition: gochart.TickPositionUnderTick,
			Ticks:        labelTicks(cfg.Labels, len(cfg.Series[0].Values)),
		},
		Series: series,
	}
	if len(cfg.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func labelTicks(labels []string, n int) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	return ticks
}

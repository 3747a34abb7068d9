package render

import (
	"github.com/chris/gdpdash/internal/series"
	"github.com/chris/gdpdash/pkg/models"
)

const (
	DefaultTitle      = "GDP per Capita Over Selected Years"
	DefaultTimeLabel  = "Year"
	DefaultValueLabel = "GDP per Capita (current US $)"
)

// ChartOptions controls labelling and coloring of a chart
type ChartOptions struct {
	Title      string
	TimeLabel  string
	ValueLabel string
	Palette    *Palette
	// Range fixes the x axis to the selected years. When nil the axis
	// follows the data.
	Range *models.Range
}

// DefaultChartOptions returns the standard labels with no palette
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:      DefaultTitle,
		TimeLabel:  DefaultTimeLabel,
		ValueLabel: DefaultValueLabel,
	}
}

// ToChartSpec groups the collection by country and produces one colored
// line per country. An empty collection gives a chart with no lines.
func ToChartSpec(coll models.SeriesCollection, opts ChartOptions) ChartSpec {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.TimeLabel == "" {
		opts.TimeLabel = DefaultTimeLabel
	}
	if opts.ValueLabel == "" {
		opts.ValueLabel = DefaultValueLabel
	}
	palette := opts.Palette
	if palette == nil {
		palette = NewPalette(nil, nil)
	}

	groups := series.GroupByCountry(coll)
	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		points := make([]Point, len(g.Points))
		for i, p := range g.Points {
			points[i] = Point{X: p.Year, Y: p.Value}
		}
		lines = append(lines, Line{
			Name:    g.Country,
			Color:   palette.ColorFor(g.Country),
			Points:  points,
			Markers: len(points) == 1,
		})
	}

	spec := ChartSpec{
		Type:       "line",
		Title:      opts.Title,
		XAxis:      Axis{Label: opts.TimeLabel},
		YAxis:      Axis{Label: opts.ValueLabel},
		Lines:      lines,
		ShowLegend: len(lines) > 0,
	}

	first := true
	for _, p := range coll {
		x, y := float64(p.Year), p.Value
		if first {
			spec.XAxis.Min, spec.XAxis.Max = x, x
			spec.YAxis.Min, spec.YAxis.Max = y, y
			first = false
			continue
		}
		spec.XAxis.Min = min(spec.XAxis.Min, x)
		spec.XAxis.Max = max(spec.XAxis.Max, x)
		spec.YAxis.Min = min(spec.YAxis.Min, y)
		spec.YAxis.Max = max(spec.YAxis.Max, y)
	}
	if opts.Range != nil {
		spec.XAxis.Min = float64(opts.Range.Min)
		spec.XAxis.Max = float64(opts.Range.Max)
	}

	return spec
}

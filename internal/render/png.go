package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

// WritePNG renders the chart spec as a PNG image. Empty charts and
// single-year charts are padded so the axes always have a non-zero span.
func WritePNG(w io.Writer, spec ChartSpec, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	xr := paddedRange(spec.XAxis.Min, spec.XAxis.Max, 0.5)
	yr := valueRange(spec)

	series := make([]chart.Series, 0, len(spec.Lines)+1)
	for _, line := range spec.Lines {
		xs := make([]float64, len(line.Points))
		ys := make([]float64, len(line.Points))
		for i, p := range line.Points {
			xs[i] = float64(p.X)
			ys[i] = p.Y
		}
		col := hexColor(line.Color)
		style := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if line.Markers {
			style.DotColor = col
			style.DotWidth = 4
		}
		series = append(series, chart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(series) == 0 {
		// go-chart needs one series; draw an invisible one across the axes
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{yr.Min, yr.Min},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           spec.XAxis.Label,
			Range:          xr,
			Ticks:          yearTicks(xr),
			ValueFormatter: yearFormatter,
		},
		YAxis: chart.YAxis{
			Name:           spec.YAxis.Label,
			Range:          yr,
			ValueFormatter: valueFormatter,
		},
		Series: series,
	}
	if spec.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// paddedRange widens a zero-width span so go-chart accepts it
func paddedRange(lo, hi, pad float64) *chart.ContinuousRange {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		lo -= pad
		hi += pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func valueRange(spec ChartSpec) *chart.ContinuousRange {
	if len(spec.Lines) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	lo, hi := spec.YAxis.Min, spec.YAxis.Max
	if lo > 0 {
		lo = 0
	}
	pad := math.Max(math.Abs(hi)*0.05, 1)
	return paddedRange(lo, hi+pad, pad)
}

// yearTicks picks a whole-year step that gives at most a dozen ticks
func yearTicks(r *chart.ContinuousRange) []chart.Tick {
	first := int(math.Ceil(r.Min))
	last := int(math.Floor(r.Max))
	span := last - first
	step := 1
	for _, s := range []int{1, 2, 5, 10, 20, 25, 50, 100} {
		step = s
		if span/s <= 12 {
			break
		}
	}

	var ticks []chart.Tick
	start := first
	if rem := start % step; rem > 0 {
		start += step - rem
	} else if rem < 0 {
		start -= rem
	}
	for y := start; y <= last; y += step {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	if len(ticks) == 0 {
		ticks = append(ticks, chart.Tick{Value: r.Min, Label: strconv.Itoa(first)})
	}
	return ticks
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return ""
}

func valueFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return ""
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

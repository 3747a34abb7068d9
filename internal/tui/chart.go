package tui

import (
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/chris/gdpdash/internal/render"
)

var (
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

func yearTime(year float64) time.Time {
	return time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// renderChart draws the chart spec as a braille line chart, one dataset per
// country in the country's palette color
func renderChart(spec render.ChartSpec, width, height int) string {
	if len(spec.Lines) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			axisStyle.Render("No data for this selection"))
	}

	minYear, maxYear := spec.XAxis.Min, spec.XAxis.Max
	if maxYear <= minYear {
		minYear, maxYear = minYear-1, maxYear+1
	}
	minY, maxY := spec.YAxis.Min, spec.YAxis.Max
	if minY > 0 {
		minY = 0
	}
	if maxY <= minY {
		maxY = minY + 1
	}

	chart := timeserieslinechart.New(width, height,
		timeserieslinechart.WithTimeRange(yearTime(minYear), yearTime(maxYear)),
		timeserieslinechart.WithYRange(minY, maxY),
		timeserieslinechart.WithAxesStyles(axisStyle, labelStyle),
		timeserieslinechart.WithXLabelFormatter(func(_ int, v float64) string {
			return strconv.Itoa(time.Unix(int64(v), 0).UTC().Year())
		}),
		timeserieslinechart.WithYLabelFormatter(func(_ int, v float64) string {
			return render.FormatValue(v)
		}),
		timeserieslinechart.WithXYSteps(4, 4),
	)

	for _, line := range spec.Lines {
		chart.SetDataSetStyle(line.Name, lipgloss.NewStyle().Foreground(lipgloss.Color(line.Color)))
		for _, p := range line.Points {
			chart.PushDataSet(line.Name, timeserieslinechart.TimePoint{
				Time:  yearTime(float64(p.X)),
				Value: p.Y,
			})
		}
	}
	chart.DrawBrailleAll()

	return chart.View()
}

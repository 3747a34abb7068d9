package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/chris/gdpdash/internal/series"
	"github.com/chris/gdpdash/pkg/models"
)

// Styles for table output
var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true) // bright-magenta
	countryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // bright-blue
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))            // white
	yearStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // bright-black
	upStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // bright-green
	downStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // bright-red
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TableOptions contains options for the text table
type TableOptions struct {
	Title   string
	Range   models.Range
	NoColor bool // Disable color output
}

// Helper function to render with or without colors
func renderStyle(style lipgloss.Style, text string, noColor bool) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

type column struct {
	title string
	right bool
}

var tableColumns = []column{
	{"Country", false},
	{"Points", true},
	{"First", true},
	{"Last", true},
	{"Min", true},
	{"Max", true},
	{"Change", true},
}

// WriteTable writes one summary row per country in the collection
func WriteTable(w io.Writer, coll models.SeriesCollection, opts TableOptions) error {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	var sb strings.Builder
	title := fmt.Sprintf("%s (%d-%d)", opts.Title, opts.Range.Min, opts.Range.Max)
	sb.WriteString(renderStyle(headerStyle, title, opts.NoColor))
	sb.WriteString("\n")
	sb.WriteString(renderStyle(separatorStyle, strings.Repeat("=", ansi.StringWidth(title)), opts.NoColor))
	sb.WriteString("\n\n")

	stats := series.Stats(coll)
	if len(stats) == 0 {
		sb.WriteString("No data for this selection.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			st.Country,
			fmt.Sprintf("%d", st.Points),
			formatPoint(st.First),
			formatPoint(st.Last),
			formatPoint(st.Min),
			formatPoint(st.Max),
			formatChange(st),
		}
	}

	widths := make([]int, len(tableColumns))
	for i, c := range tableColumns {
		widths[i] = ansi.StringWidth(c.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], ansi.StringWidth(cell))
		}
	}

	headers := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		headers[i] = c.title
	}
	sb.WriteString(renderStyle(headerStyle, joinRow(headers, widths), opts.NoColor))
	sb.WriteString("\n")

	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := pad(cell, widths[i], tableColumns[i].right)
			cells[i] = renderStyle(cellStyle(i, stats[ri]), padded, opts.NoColor)
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(formatTotals(stats))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func cellStyle(col int, st series.CountryStats) lipgloss.Style {
	switch col {
	case 0:
		return countryStyle
	case 1:
		return yearStyle
	case 6:
		if change, ok := st.Change(); ok && change < 0 {
			return downStyle
		}
		return upStyle
	default:
		return valueStyle
	}
}

func joinRow(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = pad(c, widths[i], tableColumns[i].right)
	}
	return strings.TrimRight(strings.Join(out, "  "), " ")
}

func pad(s string, width int, right bool) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// FormatValue renders a value with thousands separators
func FormatValue(v float64) string {
	if math.Abs(v) >= 100 || v == math.Trunc(v) {
		return humanize.Comma(int64(math.Round(v)))
	}
	return humanize.CommafWithDigits(v, 2)
}

func formatPoint(p models.SeriesPoint) string {
	return fmt.Sprintf("%s (%d)", FormatValue(p.Value), p.Year)
}

func formatChange(st series.CountryStats) string {
	change, ok := st.Change()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", change*100)
}

func formatTotals(stats []series.CountryStats) string {
	total := 0
	for _, st := range stats {
		total += st.Points
	}

	noun := "countries"
	if len(stats) == 1 {
		noun = "country"
	}
	return fmt.Sprintf("Total: %d points across %d %s", total, len(stats), noun)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Styles
var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	focusDotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	blurDotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	marginX   = 2
	listWidth = 28
)

func (m *Model) renderView() string {
	var b strings.Builder

	width := m.width
	if width == 0 {
		width = 100
	}
	height := m.height
	if height == 0 {
		height = 30
	}

	contentWidth := max(width-2*marginX, 40)
	margin := strings.Repeat(" ", marginX)

	b.WriteString(margin + m.renderHeader())
	b.WriteString("\n")
	b.WriteString(margin + separatorStyle.Render(strings.Repeat("=", contentWidth)))
	b.WriteString("\n\n")

	chartWidth := max(contentWidth-listWidth-2, 20)
	chartHeight := max(height-8, 5)

	list := m.renderCountryList()
	chart := lipgloss.JoinVertical(lipgloss.Left,
		renderChart(m.view.Chart, chartWidth, chartHeight),
		m.renderLegend(chartWidth),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list),
		"  ",
		chart,
	)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(margin + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(margin + separatorStyle.Render(strings.Repeat("─", contentWidth)))
	b.WriteString("\n")
	b.WriteString(margin + m.renderStatusBar())

	return b.String()
}

func (m *Model) renderHeader() string {
	dot := focusDotStyle.Render("●")
	if !m.focused {
		dot = blurDotStyle.Render("○")
	}

	r := m.view.Selection.Range
	controls := m.view.Controls
	years := fmt.Sprintf("%d-%d", r.Min, r.Max)
	if r.Min == r.Max {
		years = fmt.Sprintf("%d", r.Min)
	}

	return headerStyle.Render(m.view.Chart.Title) + " " + dot + " " +
		headerStyle.Render(years) + " " +
		dimStyle.Render(fmt.Sprintf("(data %d-%d)", controls.RangeMin, controls.RangeMax))
}

func (m *Model) renderCountryList() string {
	options := m.view.Controls.CountryOptions
	if len(options) == 0 {
		return dimStyle.Render("No countries loaded")
	}

	selected := m.view.Selection.CountrySet()
	colors := make(map[string]string, len(m.view.Chart.Lines))
	for _, l := range m.view.Chart.Lines {
		colors[l.Name] = l.Color
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d selected", len(selected), len(options))))
	b.WriteString("\n")

	end := min(m.scrollOffset+m.listHeight(), len(options))
	for i := m.scrollOffset; i < end; i++ {
		name := options[i].Label

		check := "[ ]"
		if _, ok := selected[name]; ok {
			check = "[x]"
		}
		prefix := "  "
		if i == m.cursor {
			prefix = "▶ "
		}

		swatch := " "
		if c, ok := colors[name]; ok {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■")
		}

		label := truncateWithEllipsis(name, listWidth-ansi.StringWidth(prefix+check)-3)
		line := prefix + check + " " + label
		if i == m.cursor {
			line = cursorStyle.Render(line)
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line + " " + swatch + "\n")
	}
	if end < len(options) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(options)-end)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderLegend(width int) string {
	if len(m.view.Chart.Lines) == 0 {
		return ""
	}

	var parts []string
	for _, l := range m.view.Chart.Lines {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("━━")
		parts = append(parts, swatch+" "+l.Name)
	}
	legend := strings.Join(parts, "  ")
	return lipgloss.NewStyle().Width(width).Render(legend)
}

func (m *Model) renderStatusBar() string {
	if m.status != "" {
		if m.statusErr {
			return errorStyle.Render(m.status)
		}
		return okStyle.Render(m.status)
	}
	return statusBarStyle.Render(statusBarHint)
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	margin := strings.Repeat(" ", marginX)

	b.WriteString(margin + headerStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	bindings := dashboardBindings()
	keyWidth := 0
	for _, hb := range bindings {
		keyWidth = max(keyWidth, ansi.StringWidth(hb.key))
	}
	for _, hb := range bindings {
		pad := strings.Repeat(" ", keyWidth-ansi.StringWidth(hb.key))
		b.WriteString(margin + headerStyle.Render(hb.key) + pad + "  " + normalStyle.Render(hb.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(margin + statusBarStyle.Render("[?/esc] Back  [q] Quit"))
	return b.String()
}

// truncateWithEllipsis truncates a string to maxWidth, adding … if truncated
func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth < 1 {
		maxWidth = 1
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth-1, "") + "…"
}

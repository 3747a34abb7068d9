package tui

import (
	"bytes"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/selection"
	"github.com/chris/gdpdash/internal/session"
)

// ViewState represents which view is currently displayed
type ViewState int

const (
	DashboardView ViewState = iota
	HelpView
)

// Model is the interactive dashboard. Every key that changes the selection
// goes straight to the session, so the chart always matches the controls.
type Model struct {
	sess *session.Session
	view session.View

	// Country list
	cursor       int
	scrollOffset int

	viewState ViewState
	status    string
	statusErr bool

	// UI dimensions
	width  int
	height int

	// Focus
	focused bool

	yearStep int
}

// Option is a functional option for configuring the Model
type Option func(*Model)

// WithYearStep sets how many years the big range keys move a bound
func WithYearStep(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.yearStep = n
		}
	}
}

// New creates a Model over a session
func New(sess *session.Session, opts ...Option) *Model {
	m := &Model{
		sess:     sess,
		view:     sess.Current(),
		focused:  true,
		yearStep: 10,
	}
	for _, opt := range opts {
		opt(m)
	}
	sess.OnChange(func(v session.View) {
		m.view = v
	})
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case tea.FocusMsg:
		m.focused = true
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		return m, nil

	case yankResultMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("yank failed: %w", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("Copied %d points as CSV", len(m.view.Series)))
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch m.viewState {
	case HelpView:
		return m.handleHelpKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?", "esc", "-":
		m.viewState = DashboardView
	}
	return m, nil
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	countries := m.sess.Table().Countries()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(countries)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}

	case "g", "home":
		m.cursor = 0
		m.ensureCursorVisible()

	case "G", "end":
		m.cursor = max(len(countries)-1, 0)
		m.ensureCursorVisible()

	case " ", "space", "x", "enter":
		if len(countries) > 0 {
			m.toggle(countries[m.cursor])
		}

	case "a":
		m.sess.SetCountries(countries)
		m.setStatus("Selected all countries")

	case "n":
		m.sess.SetCountries(nil)
		m.setStatus("Cleared selection")

	case "o":
		if len(countries) > 0 {
			m.sess.SetCountries([]string{countries[m.cursor]})
			m.setStatus("Showing only " + countries[m.cursor])
		}

	case "h", "left":
		m.moveRange(-1, 0)
	case "l", "right":
		m.moveRange(1, 0)
	case "H":
		m.moveRange(0, -1)
	case "L":
		m.moveRange(0, 1)
	case "[":
		m.moveRange(-m.yearStep, 0)
	case "]":
		m.moveRange(m.yearStep, 0)
	case "{":
		m.moveRange(0, -m.yearStep)
	case "}":
		m.moveRange(0, m.yearStep)

	case "r":
		m.sess.Reset()
		m.setStatus("Reset to all countries and years")

	case "y":
		return m, m.yankSeries()

	case "?":
		m.viewState = HelpView
	}

	return m, nil
}

func (m *Model) toggle(country string) {
	current := m.view.Selection.Countries
	next := make([]string, 0, len(current)+1)
	found := false
	for _, c := range current {
		if c == country {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		next = append(next, country)
	}
	m.sess.SetCountries(next)
	m.status = ""
}

// moveRange shifts the start and end years. Bounds outside the table are
// clamped by the session; a start past the end is reported and ignored.
func (m *Model) moveRange(dMin, dMax int) {
	r := m.view.Selection.Range
	if _, err := m.sess.SetRange(r.Min+dMin, r.Max+dMax); err != nil {
		m.setError(err)
		return
	}
	m.status = ""
}

func (m *Model) yankSeries() tea.Cmd {
	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, m.sess.Table().KeyColumn(), m.view.Series); err != nil {
		m.setError(err)
		return nil
	}
	return yankToClipboard(buf.String())
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	var rangeErr *selection.InvalidRangeError
	if errors.As(err, &rangeErr) {
		m.status = fmt.Sprintf("Start year %d would be after end year %d", rangeErr.Min, rangeErr.Max)
	} else {
		m.status = err.Error()
	}
	m.statusErr = true
}

// listHeight is the number of country rows that fit on screen
func (m *Model) listHeight() int {
	if m.height == 0 {
		return len(m.sess.Table().Countries())
	}
	return max(m.height-8, 1)
}

// ensureCursorVisible adjusts scrollOffset to keep the cursor in view
func (m *Model) ensureCursorVisible() {
	avail := m.listHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+avail {
		m.scrollOffset = m.cursor - avail + 1
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.viewState == HelpView {
		return m.renderHelp()
	}
	return m.renderView()
}

// Getters for testing
func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Current() session.View {
	return m.view
}

func (m *Model) Status() string {
	return m.status
}

func (m *Model) StatusIsError() bool {
	return m.statusErr
}

func (m *Model) Focused() bool {
	return m.focused
}

func (m *Model) ViewState() ViewState {
	return m.viewState
}

func (m *Model) ScrollOffset() int {
	return m.scrollOffset
}

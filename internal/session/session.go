package session

import (
	"github.com/chris/gdpdash/internal/render"
	"github.com/chris/gdpdash/internal/selection"
	"github.com/chris/gdpdash/internal/series"
	"github.com/chris/gdpdash/pkg/models"
)

// View is everything a front-end shows for one selection
type View struct {
	Selection models.Selection       `json:"selection"`
	Series    models.SeriesCollection `json:"series"`
	Chart     render.ChartSpec        `json:"chart"`
	Controls  render.ControlSpecs     `json:"controls"`
}

// Session ties a loaded table to one user's selection and keeps the derived
// view current. Every selection change recomputes the series and both
// render specs before listeners run.
// Session is not safe for concurrent use.
type Session struct {
	table     *models.Table
	state     *selection.State
	chartOpts render.ChartOptions
	colors    []string
	view      View
	listeners []func(View)
}

// Option configures a Session
type Option func(*Session)

// WithChartOptions sets chart labels. A nil palette is replaced by one
// built from the table.
func WithChartOptions(opts render.ChartOptions) Option {
	return func(s *Session) {
		s.chartOpts = opts
	}
}

// WithColors sets the base colors of the palette. It has no effect when
// WithChartOptions supplies a palette.
func WithColors(colors []string) Option {
	return func(s *Session) {
		s.colors = colors
	}
}

// New creates a session with the default selection: every country over
// the full year range
func New(table *models.Table, opts ...Option) *Session {
	s := &Session{
		table:     table,
		state:     selection.New(table),
		chartOpts: render.DefaultChartOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chartOpts.Palette == nil {
		s.chartOpts.Palette = render.NewPalette(table.Countries(), s.colors)
	}

	s.state.Subscribe(s.recompute)
	s.recompute(s.state.Snapshot())
	return s
}

// Table returns the immutable table behind the session
func (s *Session) Table() *models.Table {
	return s.table
}

// Current returns the view for the current selection
func (s *Session) Current() View {
	return s.view
}

// Selection returns a copy of the current selection
func (s *Session) Selection() models.Selection {
	return s.state.Snapshot()
}

// OnChange registers fn to run after every recompute
func (s *Session) OnChange(fn func(View)) {
	s.listeners = append(s.listeners, fn)
}

// SetCountries replaces the country set and returns the new view
func (s *Session) SetCountries(countries []string) View {
	s.state.SetCountries(countries)
	return s.view
}

// SetRange replaces the year range. On *selection.InvalidRangeError the
// previous view is returned unchanged.
func (s *Session) SetRange(min, max int) (View, error) {
	if err := s.state.SetRange(min, max); err != nil {
		return s.view, err
	}
	return s.view, nil
}

// Apply sets both parts of the selection in one step. The range is checked
// first so an invalid range leaves the countries untouched too.
func (s *Session) Apply(sel models.Selection) (View, error) {
	if sel.Range.Min > sel.Range.Max {
		return s.view, &selection.InvalidRangeError{Min: sel.Range.Min, Max: sel.Range.Max}
	}
	s.state.SetCountries(sel.Countries)
	return s.SetRange(sel.Range.Min, sel.Range.Max)
}

// Reset restores the default selection
func (s *Session) Reset() View {
	s.state.Reset()
	return s.view
}

func (s *Session) recompute(sel models.Selection) {
	coll := series.Compute(s.table, sel)

	opts := s.chartOpts
	opts.Range = &sel.Range

	s.view = View{
		Selection: sel,
		Series:    coll,
		Chart:     render.ToChartSpec(coll, opts),
		Controls:  render.ToControlSpecs(s.table, sel),
	}
	for _, fn := range s.listeners {
		fn(s.view)
	}
}

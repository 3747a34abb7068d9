package render

// ChartSpec describes a multi-series line chart. It carries everything a
// front-end needs to draw the chart and nothing it has to compute.
type ChartSpec struct {
	Type       string `json:"type"` // always "line"
	Title      string `json:"title"`
	XAxis      Axis   `json:"xAxis"`
	YAxis      Axis   `json:"yAxis"`
	Lines      []Line `json:"lines"`
	ShowLegend bool   `json:"showLegend"`
}

// Axis is an axis label with the data bounds shown on it
type Axis struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Line is one country's series
type Line struct {
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Points  []Point `json:"points"`
	Markers bool    `json:"markers"` // single-point lines are drawn as markers
}

// Point is an (x, y) pair on a line
type Point struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// Option is an entry in the country selector
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mark is a labelled position on the year slider. Label may be empty for
// an unlabelled tick.
type Mark struct {
	Year  int    `json:"year"`
	Label string `json:"label"`
}

// ControlSpecs describes the two selection controls
type ControlSpecs struct {
	CountryOptions []Option `json:"countryOptions"`
	CountryValue   []string `json:"countryValue"`
	RangeMin       int      `json:"rangeMin"`
	RangeMax       int      `json:"rangeMax"`
	RangeValue     [2]int   `json:"rangeValue"`
	Step           int      `json:"step"`
	Marks          []Mark   `json:"marks"`
}

package models

// Range is an inclusive year interval
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies in [Min, Max]
func (r Range) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Selection is the user's current filter: a set of countries (kept in
// table order) and a year range.
type Selection struct {
	Countries []string `json:"countries"`
	Range     Range    `json:"range"`
}

// CountrySet returns the selected countries as a lookup set
func (s Selection) CountrySet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Countries))
	for _, c := range s.Countries {
		set[c] = struct{}{}
	}
	return set
}

// SeriesPoint is one plotted value
type SeriesPoint struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

// SeriesCollection is the long-format output of a filter pass, ordered by
// country (table order) and then year ascending.
type SeriesCollection []SeriesPoint

// Series is the run of points for one country
type Series struct {
	Country string
	Points  []SeriesPoint
}

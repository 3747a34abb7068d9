package series

import (
	"github.com/chris/gdpdash/pkg/models"
)

// GroupByCountry splits a collection into one series per country, in the
// order countries first appear. Points keep their incoming order within a
// country, so callers that need year order should pass Compute output.
func GroupByCountry(coll models.SeriesCollection) []models.Series {
	index := make(map[string]int)
	var groups []models.Series

	for _, p := range coll {
		i, ok := index[p.Country]
		if !ok {
			i = len(groups)
			index[p.Country] = i
			groups = append(groups, models.Series{Country: p.Country})
		}
		groups[i].Points = append(groups[i].Points, p)
	}

	return groups
}

// CountryStats summarizes one country's plotted points
type CountryStats struct {
	Country string
	Points  int
	First   models.SeriesPoint
	Last    models.SeriesPoint
	Min     models.SeriesPoint
	Max     models.SeriesPoint
}

// Change returns the relative change from the first to the last point, or
// false when it is undefined
func (s CountryStats) Change() (float64, bool) {
	if s.Points < 2 || s.First.Value == 0 {
		return 0, false
	}
	return (s.Last.Value - s.First.Value) / s.First.Value, true
}

// Stats computes per-country summaries in GroupByCountry order
func Stats(coll models.SeriesCollection) []CountryStats {
	groups := GroupByCountry(coll)
	stats := make([]CountryStats, 0, len(groups))

	for _, g := range groups {
		st := CountryStats{
			Country: g.Country,
			Points:  len(g.Points),
			First:   g.Points[0],
			Last:    g.Points[len(g.Points)-1],
			Min:     g.Points[0],
			Max:     g.Points[0],
		}
		for _, p := range g.Points[1:] {
			if p.Value < st.Min.Value {
				st.Min = p
			}
			if p.Value > st.Max.Value {
				st.Max = p
			}
		}
		stats = append(stats, st)
	}

	return stats
}

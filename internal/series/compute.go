package series

import (
	"github.com/chris/gdpdash/pkg/models"
)

// Compute filters the table down to the selected countries and years and
// flattens it into long format. Points are ordered by the country's
// position in the table, then by year. Cells that are not numeric are
// skipped, leaving a gap in the line rather than a zero.
//
// Compute is pure: the same table and selection always give the same
// collection, and an empty country set gives an empty collection.
func Compute(table *models.Table, sel models.Selection) models.SeriesCollection {
	if len(sel.Countries) == 0 || sel.Range.Min > sel.Range.Max {
		return models.SeriesCollection{}
	}

	wanted := sel.CountrySet()
	out := models.SeriesCollection{}

	table.Each(func(years []int, rec models.Record) {
		if _, ok := wanted[rec.Country]; !ok {
			return
		}
		for i, year := range years {
			if !sel.Range.Contains(year) {
				continue
			}
			cell := rec.Cells[i]
			if !cell.Numeric {
				continue
			}
			out = append(out, models.SeriesPoint{
				Country: rec.Country,
				Year:    year,
				Value:   cell.Value,
			})
		}
	})

	return out
}

package render

import (
	"strconv"

	"github.com/chris/gdpdash/pkg/models"
)

// markEvery is the slider tick spacing in years; ticks on multiples of
// labelEvery get a text label.
const (
	markEvery  = 50
	labelEvery = 100
)

// ToControlSpecs derives the selector options and slider bounds from the
// table and the current values from the selection. Bounds always come from
// the table, never from the selection.
func ToControlSpecs(table *models.Table, sel models.Selection) ControlSpecs {
	countries := table.Countries()
	options := make([]Option, len(countries))
	for i, c := range countries {
		options[i] = Option{Label: c, Value: c}
	}

	value := make([]string, len(sel.Countries))
	copy(value, sel.Countries)

	return ControlSpecs{
		CountryOptions: options,
		CountryValue:   value,
		RangeMin:       table.MinYear(),
		RangeMax:       table.MaxYear(),
		RangeValue:     [2]int{sel.Range.Min, sel.Range.Max},
		Step:           1,
		Marks:          sliderMarks(table.MinYear(), table.MaxYear()),
	}
}

// sliderMarks puts a tick every 50 years, labelled on whole centuries.
// Ranges too short for any tick get labelled end points instead.
func sliderMarks(minYear, maxYear int) []Mark {
	var marks []Mark
	start := ((minYear + markEvery - 1) / markEvery) * markEvery
	if minYear < 0 {
		start = (minYear / markEvery) * markEvery
	}
	for y := start; y <= maxYear; y += markEvery {
		label := ""
		if y%labelEvery == 0 {
			label = strconv.Itoa(y)
		}
		marks = append(marks, Mark{Year: y, Label: label})
	}

	if len(marks) == 0 {
		marks = append(marks, Mark{Year: minYear, Label: strconv.Itoa(minYear)})
		if maxYear != minYear {
			marks = append(marks, Mark{Year: maxYear, Label: strconv.Itoa(maxYear)})
		}
	}
	return marks
}

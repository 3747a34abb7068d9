package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/chris/gdpdash/pkg/models"
)

// WriteCSV writes the collection in long format: key column, year, value
func WriteCSV(w io.Writer, keyColumn string, coll models.SeriesCollection) error {
	if keyColumn == "" {
		keyColumn = "country"
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{keyColumn, "year", "value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range coll {
		row := []string{p.Country, strconv.Itoa(p.Year), strconv.FormatFloat(p.Value, 'f', -1, 64)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

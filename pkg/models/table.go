package models

// Cell is a normalized table value. Cells that could not be converted to a
// number keep their original text and have Numeric set to false.
type Cell struct {
	Raw     string
	Value   float64
	Numeric bool
}

// Missing returns a non-numeric cell holding the original text
func Missing(raw string) Cell {
	return Cell{Raw: raw}
}

// Number returns a numeric cell
func Number(raw string, v float64) Cell {
	return Cell{Raw: raw, Value: v, Numeric: true}
}

// Record is one row of the table: a country and one cell per year.
// Cells are aligned with Table.Years.
type Record struct {
	Country string
	Cells   []Cell
}

// Table is the normalized, read-only dataset. Every record carries exactly
// one cell per year, and years are strictly ascending.
type Table struct {
	keyColumn string
	years     []int
	records   []Record
	index     map[string]int
}

// NewTable builds a table from already validated parts.
// Callers must not modify years or records afterwards.
func NewTable(keyColumn string, years []int, records []Record) *Table {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.Country] = i
	}
	return &Table{
		keyColumn: keyColumn,
		years:     years,
		records:   records,
		index:     index,
	}
}

// KeyColumn returns the header of the category column (e.g. "country")
func (t *Table) KeyColumn() string {
	return t.keyColumn
}

// Years returns a copy of the ascending year keys
func (t *Table) Years() []int {
	out := make([]int, len(t.years))
	copy(out, t.years)
	return out
}

// MinYear returns the first year of the table
func (t *Table) MinYear() int {
	if len(t.years) == 0 {
		return 0
	}
	return t.years[0]
}

// MaxYear returns the last year of the table
func (t *Table) MaxYear() int {
	if len(t.years) == 0 {
		return 0
	}
	return t.years[len(t.years)-1]
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// Countries returns the country names in table order
func (t *Table) Countries() []string {
	out := make([]string, len(t.records))
	for i, rec := range t.records {
		out[i] = rec.Country
	}
	return out
}

// Index returns the position of a country in the table
func (t *Table) Index(country string) (int, bool) {
	i, ok := t.index[country]
	return i, ok
}

// Has reports whether the country is part of the table
func (t *Table) Has(country string) bool {
	_, ok := t.index[country]
	return ok
}

// Each calls fn for every record in table order. The record must be
// treated as read-only.
func (t *Table) Each(fn func(years []int, rec Record)) {
	for _, rec := range t.records {
		fn(t.years, rec)
	}
}

// Cell returns the cell for a country and year
func (t *Table) Cell(country string, year int) (Cell, bool) {
	i, ok := t.index[country]
	if !ok {
		return Cell{}, false
	}
	col := year - t.MinYear()
	// Years are usually contiguous; fall back to a scan when they are not.
	if col < 0 || col >= len(t.years) || t.years[col] != year {
		col = -1
		for j, y := range t.years {
			if y == year {
				col = j
				break
			}
		}
		if col < 0 {
			return Cell{}, false
		}
	}
	return t.records[i].Cells[col], true
}

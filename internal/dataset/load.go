package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chris/gdpdash/pkg/models"
)

// Options controls how delimited text is read
type Options struct {
	Delimiter rune // Field delimiter (default: ',')
}

// DefaultOptions returns the options for a plain comma separated file
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// LoadFile loads and normalizes a delimited text file
func LoadFile(path string, opts Options) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	return Load(file, opts)
}

// Load reads a table whose first column holds country names and whose
// remaining columns are ascending integer years. Every cell is normalized
// with Normalize.
func Load(r io.Reader, opts Options) (*models.Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, formatErrorf(0, 0, "empty input, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	b, err := newBuilder(header)
	if err != nil {
		return nil, err
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, formatErrorf(parseErr.Line, parseErr.Column, "%v", parseErr.Err)
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if err := b.add(line, row); err != nil {
			return nil, err
		}
	}

	return b.table(), nil
}

// Build normalizes an in-memory header and rows. It applies the same
// validation as Load; row i is reported as line i+2.
func Build(header []string, rows [][]string) (*models.Table, error) {
	b, err := newBuilder(header)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := b.add(i+2, row); err != nil {
			return nil, err
		}
	}
	return b.table(), nil
}

type builder struct {
	keyColumn string
	years     []int
	records   []models.Record
	seen      map[string]int // country -> line of first occurrence
}

func newBuilder(header []string) (*builder, error) {
	if len(header) == 0 {
		return nil, formatErrorf(1, 0, "missing header row")
	}

	key := strings.TrimSpace(strings.TrimPrefix(header[0], "\ufeff"))
	if key == "" {
		return nil, formatErrorf(1, 1, "missing category column header")
	}
	if _, err := strconv.Atoi(key); err == nil {
		return nil, formatErrorf(1, 1, "first column %q looks like a year, expected a category column", key)
	}

	if len(header) < 2 {
		return nil, formatErrorf(1, 0, "no year columns after %q", key)
	}

	years := make([]int, 0, len(header)-1)
	for i, h := range header[1:] {
		col := i + 2
		year, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, formatErrorf(1, col, "year header %q is not an integer", h)
		}
		if len(years) > 0 && year <= years[len(years)-1] {
			return nil, formatErrorf(1, col, "year %d is not after %d, headers must be ascending", year, years[len(years)-1])
		}
		years = append(years, year)
	}

	return &builder{
		keyColumn: key,
		years:     years,
		seen:      make(map[string]int),
	}, nil
}

func (b *builder) add(line int, row []string) error {
	if len(row) == 0 {
		return nil
	}

	country := strings.TrimSpace(row[0])
	if country == "" {
		return formatErrorf(line, 1, "missing %s name", b.keyColumn)
	}
	if first, dup := b.seen[country]; dup {
		return formatErrorf(line, 1, "duplicate %s %q (first seen on line %d)", b.keyColumn, country, first)
	}
	for len(row)-1 > len(b.years) && strings.TrimSpace(row[len(row)-1]) == "" {
		row = row[:len(row)-1]
	}
	if len(row)-1 > len(b.years) {
		return formatErrorf(line, len(b.years)+2, "row has %d values, header has %d years", len(row)-1, len(b.years))
	}

	cells := make([]models.Cell, len(b.years))
	for i := range cells {
		raw := ""
		if i+1 < len(row) {
			raw = row[i+1]
		}
		cells[i] = Normalize(raw)
	}

	b.seen[country] = line
	b.records = append(b.records, models.Record{Country: country, Cells: cells})
	return nil
}

func (b *builder) table() *models.Table {
	return models.NewTable(b.keyColumn, b.years, b.records)
}

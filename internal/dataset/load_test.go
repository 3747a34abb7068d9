package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `country,2000,2001,2002
A,10,20,30
B,5,x,15
`

func TestLoad_SampleTable(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "country", table.KeyColumn())
	assert.Equal(t, []string{"A", "B"}, table.Countries())
	assert.Equal(t, []int{2000, 2001, 2002}, table.Years())
	assert.Equal(t, 2000, table.MinYear())
	assert.Equal(t, 2002, table.MaxYear())

	cell, ok := table.Cell("A", 2001)
	require.True(t, ok)
	assert.True(t, cell.Numeric)
	assert.Equal(t, 20.0, cell.Value)

	cell, ok = table.Cell("B", 2001)
	require.True(t, ok)
	assert.False(t, cell.Numeric, "x should be marked missing")
	assert.Equal(t, "x", cell.Raw)
}

func TestLoad_ExpandsShorthandValues(t *testing.T) {
	input := "country,1999,2000\nNorway,48.2k,50k\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)

	cell, ok := table.Cell("Norway", 1999)
	require.True(t, ok)
	assert.InDelta(t, 48200.0, cell.Value, 1e-9)

	cell, ok = table.Cell("Norway", 2000)
	require.True(t, ok)
	assert.InDelta(t, 50000.0, cell.Value, 1e-9)
}

// TestLoad_CountryColumnIsNotNormalized tests that names ending in "k" are
// kept as names
func TestLoad_CountryColumnIsNotNormalized(t *testing.T) {
	input := "country,2000\nDenmark,1k\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Denmark"}, table.Countries())
}

func TestLoad_ShortRowsArePaddedWithMissingCells(t *testing.T) {
	input := "country,2000,2001,2002\nA,1\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)

	cell, ok := table.Cell("A", 2002)
	require.True(t, ok)
	assert.False(t, cell.Numeric)
}

func TestLoad_TrailingEmptyFieldsAreIgnored(t *testing.T) {
	input := "country,2000\nA,1,,\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoad_CustomDelimiter(t *testing.T) {
	input := "country;2000;2001\nA;1;2\n"

	table, err := Load(strings.NewReader(input), Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []int{2000, 2001}, table.Years())
}

func TestLoad_ByteOrderMarkIsStripped(t *testing.T) {
	input := "\ufeffcountry,2000\nA,1\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "country", table.KeyColumn())
}

func TestLoad_HeaderOnlyGivesEmptyTable(t *testing.T) {
	table, err := Load(strings.NewReader("country,2000,2001\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 2000, table.MinYear())
	assert.Equal(t, 2001, table.MaxYear())
}

func TestLoad_FormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty input", "", "empty input"},
		{"missing category header", ",2000\nA,1\n", "missing category column"},
		{"year as first column", "1999,2000\n1,2\n", "looks like a year"},
		{"no year columns", "country\nA\n", "no year columns"},
		{"non numeric year", "country,2000,abc\nA,1,2\n", "not an integer"},
		{"descending years", "country,2001,2000\nA,1,2\n", "must be ascending"},
		{"duplicate year", "country,2000,2000\nA,1,2\n", "must be ascending"},
		{"duplicate country", "country,2000\nA,1\nA,2\n", "duplicate country"},
		{"missing country name", "country,2000\n,1\n", "missing country name"},
		{"too many values", "country,2000\nA,1,2\n", "header has 1 years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), DefaultOptions())
			require.Error(t, err)

			var formatErr *DataFormatError
			require.True(t, errors.As(err, &formatErr), "expected DataFormatError, got %T", err)
			assert.Contains(t, formatErr.Error(), tt.reason)
		})
	}
}

func TestLoad_FormatErrorReportsLine(t *testing.T) {
	input := "country,2000\nA,1\nB,2\nA,3\n"

	_, err := Load(strings.NewReader(input), DefaultOptions())

	var formatErr *DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 4, formatErr.Line)
	assert.Equal(t, 1, formatErr.Column)
	assert.Contains(t, formatErr.Error(), "line 4")
	assert.Contains(t, formatErr.Error(), "first seen on line 2")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdp.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	table, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuild(t *testing.T) {
	table, err := Build(
		[]string{"country", "2000", "2001"},
		[][]string{{"A", "1k", "oops"}},
	)
	require.NoError(t, err)

	cell, ok := table.Cell("A", 2000)
	require.True(t, ok)
	assert.Equal(t, 1000.0, cell.Value)

	_, err = Build([]string{"country", "2000"}, [][]string{{"A", "1"}, {"A", "2"}})
	var formatErr *DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 3, formatErr.Line)
}

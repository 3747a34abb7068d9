package selection

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/gdpdash/internal/dataset"
	"github.com/chris/gdpdash/pkg/models"
)

// decadeTable returns a table spanning 2000-2010 with three countries
func decadeTable(t *testing.T) *models.Table {
	t.Helper()
	header := []string{"country"}
	row := func(name string) []string {
		r := []string{name}
		for y := 2000; y <= 2010; y++ {
			r = append(r, "1")
		}
		return r
	}
	for y := 2000; y <= 2010; y++ {
		header = append(header, strconv.Itoa(y))
	}
	table, err := dataset.Build(header, [][]string{row("Chile"), row("Brazil"), row("Angola")})
	require.NoError(t, err)
	return table
}

func TestNew_DefaultsToEverything(t *testing.T) {
	state := New(decadeTable(t))

	snap := state.Snapshot()
	assert.Equal(t, []string{"Chile", "Brazil", "Angola"}, snap.Countries)
	assert.Equal(t, models.Range{Min: 2000, Max: 2010}, snap.Range)
}

func TestSetCountries_ReplacesWithoutMerging(t *testing.T) {
	state := New(decadeTable(t))

	state.SetCountries([]string{"Brazil"})
	assert.Equal(t, []string{"Brazil"}, state.Snapshot().Countries)

	state.SetCountries([]string{"Angola"})
	assert.Equal(t, []string{"Angola"}, state.Snapshot().Countries, "second call should replace, not add")
}

func TestSetCountries_KeepsTableOrderAndDropsUnknown(t *testing.T) {
	state := New(decadeTable(t))

	state.SetCountries([]string{"Angola", "Atlantis", "Chile", "Angola"})
	assert.Equal(t, []string{"Chile", "Angola"}, state.Snapshot().Countries)
}

func TestSetCountries_EmptySetIsAllowed(t *testing.T) {
	state := New(decadeTable(t))

	state.SetCountries(nil)
	assert.Empty(t, state.Snapshot().Countries)
}

func TestSetRange(t *testing.T) {
	state := New(decadeTable(t))

	require.NoError(t, state.SetRange(2003, 2005))
	assert.Equal(t, models.Range{Min: 2003, Max: 2005}, state.Snapshot().Range)
}

func TestSetRange_SingleYear(t *testing.T) {
	state := New(decadeTable(t))

	require.NoError(t, state.SetRange(2004, 2004))
	assert.Equal(t, models.Range{Min: 2004, Max: 2004}, state.Snapshot().Range)
}

// TestSetRange_InvertedRangeIsRejected tests the scenario:
// setTimeRange(2005, 2000) on a 2000-2010 table fails and changes nothing
func TestSetRange_InvertedRangeIsRejected(t *testing.T) {
	// Given: a selection narrowed to 2002-2008
	state := New(decadeTable(t))
	require.NoError(t, state.SetRange(2002, 2008))
	before := state.Snapshot()

	// When: the range is set backwards
	err := state.SetRange(2005, 2000)

	// Then: an InvalidRangeError is returned
	var rangeErr *InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 2005, rangeErr.Min)
	assert.Equal(t, 2000, rangeErr.Max)
	assert.Contains(t, err.Error(), "2005")

	// And: the selection is unchanged
	assert.Equal(t, before, state.Snapshot())
}

func TestSetRange_ClampsToTableBounds(t *testing.T) {
	state := New(decadeTable(t))

	require.NoError(t, state.SetRange(1990, 2050))
	assert.Equal(t, models.Range{Min: 2000, Max: 2010}, state.Snapshot().Range)

	require.NoError(t, state.SetRange(2020, 2030))
	assert.Equal(t, models.Range{Min: 2010, Max: 2010}, state.Snapshot().Range, "range past the end collapses onto the last year")
}

func TestSetters_AreIndependent(t *testing.T) {
	state := New(decadeTable(t))

	require.NoError(t, state.SetRange(2001, 2002))
	state.SetCountries([]string{"Chile"})

	snap := state.Snapshot()
	assert.Equal(t, models.Range{Min: 2001, Max: 2002}, snap.Range, "country change should not touch the range")

	require.NoError(t, state.SetRange(2005, 2006))
	assert.Equal(t, []string{"Chile"}, state.Snapshot().Countries, "range change should not touch the countries")
}

func TestSubscribe_NotifiesOnSuccessfulChanges(t *testing.T) {
	state := New(decadeTable(t))

	var seen []models.Selection
	state.Subscribe(func(sel models.Selection) {
		seen = append(seen, sel)
	})

	state.SetCountries([]string{"Brazil"})
	require.NoError(t, state.SetRange(2001, 2003))
	require.Error(t, state.SetRange(2009, 2001))

	require.Len(t, seen, 2, "rejected range should not notify")
	assert.Equal(t, []string{"Brazil"}, seen[0].Countries)
	assert.Equal(t, models.Range{Min: 2001, Max: 2003}, seen[1].Range)
}

func TestSnapshot_IsIndependent(t *testing.T) {
	state := New(decadeTable(t))

	snap := state.Snapshot()
	snap.Countries[0] = "Mutated"

	assert.Equal(t, "Chile", state.Snapshot().Countries[0])
}

func TestReset(t *testing.T) {
	state := New(decadeTable(t))
	state.SetCountries(nil)
	require.NoError(t, state.SetRange(2004, 2004))

	state.Reset()

	snap := state.Snapshot()
	assert.Len(t, snap.Countries, 3)
	assert.Equal(t, models.Range{Min: 2000, Max: 2010}, snap.Range)
}

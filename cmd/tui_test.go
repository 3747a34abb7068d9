package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/gdpdash/internal/selection"
)

func TestTUI_RequiresTerminal(t *testing.T) {
	data := writeFixture(t, "gdp.csv", fixtureCSV)

	_, _, err := execute(t, "tui", "--data", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a terminal")
}

// TestTUI_SelectionCheckedFirst tests that an invalid starting selection is
// reported before the terminal is touched
func TestTUI_SelectionCheckedFirst(t *testing.T) {
	data := writeFixture(t, "gdp.csv", fixtureCSV)

	_, _, err := execute(t, "tui", "--data", data, "--from", "2002", "--to", "2000")
	require.Error(t, err)

	var rangeErr *selection.InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

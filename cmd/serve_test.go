package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServe_StopsWhenContextEnds tests that serve listens, logs and shuts
// down cleanly
func TestServe_StopsWhenContextEnds(t *testing.T) {
	data := writeFixture(t, "gdp.csv", fixtureCSV)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	output, stderr, err := executeContext(t, ctx, "serve", "--data", data, "--addr", "127.0.0.1:0")
	require.NoError(t, err)

	assert.Contains(t, output, "Serving 3 countries (2000-2002) on http://127.0.0.1:")
	assert.Contains(t, stderr, "listening")
	assert.Contains(t, stderr, "shutting down")
}

func TestServe_BadAddress(t *testing.T) {
	data := writeFixture(t, "gdp.csv", fixtureCSV)

	_, _, err := execute(t, "serve", "--data", data, "--addr", "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen on not-an-address")
}

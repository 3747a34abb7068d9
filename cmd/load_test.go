package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDatabaseFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    bool
	}{
		{"db extension", "gdp.db", "", true},
		{"sqlite extension", "gdp.SQLITE3", "", true},
		{"csv extension", "gdp.csv", "SQLite format 3\x00", false},
		{"sqlite header", "gdp", "SQLite format 3\x00rest of page", true},
		{"text header", "gdp", "country,2000\n", false},
		{"short file", "gdp", "SQL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" || filepath.Ext(tt.file) == "" {
				path = writeFixture(t, tt.file, tt.content)
			}
			assert.Equal(t, tt.want, isDatabaseFile(path))
		})
	}

	assert.False(t, isDatabaseFile(filepath.Join(dir, "missing")))
}

func TestDataSource(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	t.Setenv("GDPDASH_DATA", "/from/env.csv")
	assert.Equal(t, "/from/env.csv", dataSource())

	dataPath = "/from/flag.csv"
	assert.Equal(t, "/from/flag.csv", dataSource())
}

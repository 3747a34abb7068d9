package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDatabasePath(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSuffix  string
		wantErr     bool
		errContains string
	}{
		{
			name:        "empty path should error",
			input:       "",
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name:       "auto-append .db extension when missing",
			input:      "/tmp/gdp",
			wantSuffix: "/tmp/gdp.db",
		},
		{
			name:       "preserve .db extension when present",
			input:      "/tmp/gdp.db",
			wantSuffix: "/tmp/gdp.db",
		},
		{
			name:       "preserve other extensions",
			input:      "/tmp/gdp.sqlite",
			wantSuffix: "/tmp/gdp.sqlite",
		},
		{
			name:       "relative path converted to absolute",
			input:      "local_gdp",
			wantSuffix: "local_gdp.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDatabasePath(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got), "%s should be absolute", got)
			assert.Equal(t, tt.wantSuffix, got[len(got)-len(tt.wantSuffix):])
		})
	}
}

func TestNormalizeDatabasePath_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	got, err := NormalizeDatabasePath("~/data/gdp.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "gdp.db"), got)

	got, err = NormalizeDatabasePath("~gdp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "gdp.db"), got)
}

func TestValidateDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		setup       func() string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid path in existing directory",
			setup: func() string {
				return filepath.Join(tmpDir, "gdp.db")
			},
		},
		{
			name: "path is a directory should error",
			setup: func() string {
				return tmpDir
			},
			wantErr:     true,
			errContains: "directory",
		},
		{
			name: "parent directory doesn't exist but can be created",
			setup: func() string {
				return filepath.Join(tmpDir, "new_dir", "gdp.db")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabasePath(tt.setup())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDatabasePath_ExistingFile(t *testing.T) {
	// Given: an existing database file
	path := filepath.Join(t.TempDir(), "gdp.db")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	// Then: it validates and no probe file is left next to it
	require.NoError(t, ValidateDatabasePath(path))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestValidateDatabasePath_ParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	err := ValidateDatabasePath(filepath.Join(parent, "gdp.db"))
	require.Error(t, err)
}

package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/gdpdash/internal/dataset"
	"github.com/chris/gdpdash/pkg/models"
)

const gdpCSV = `country,1990,1991,1992
Chile,2.5k,2.7k,3.1k
Brazil,3k,,n/a
Angola,500,450,
`

var implementations = []string{"modernc", "zombiezen"}

func loadCSV(t *testing.T, csv string) *models.Table {
	t.Helper()
	table, err := dataset.Load(strings.NewReader(csv), dataset.DefaultOptions())
	require.NoError(t, err)
	return table
}

func TestImportAndLoad_RoundTrip(t *testing.T) {
	for _, impl := range implementations {
		t.Run(impl, func(t *testing.T) {
			// Given: an imported dataset
			t.Setenv("DB_IMPL", impl)
			dbPath := filepath.Join(t.TempDir(), "dataset.db")
			original := loadCSV(t, gdpCSV)

			store, err := NewDatabase(dbPath, true)
			require.NoError(t, err)
			require.NoError(t, store.ImportTable(original, "gdp.csv"))
			require.NoError(t, store.Close())

			// When: the database is reopened and loaded
			loaded, err := LoadPath(dbPath)
			require.NoError(t, err)

			// Then: the table matches the original
			assert.Equal(t, original.KeyColumn(), loaded.KeyColumn())
			assert.Equal(t, original.Years(), loaded.Years())
			assert.Equal(t, original.Countries(), loaded.Countries())
			for _, country := range original.Countries() {
				for _, year := range original.Years() {
					want, _ := original.Cell(country, year)
					got, ok := loaded.Cell(country, year)
					require.True(t, ok)
					assert.Equal(t, want, got, "%s %d", country, year)
				}
			}
		})
	}
}

func TestImport_ReplacesPreviousDataset(t *testing.T) {
	for _, impl := range implementations {
		t.Run(impl, func(t *testing.T) {
			t.Setenv("DB_IMPL", impl)
			dbPath := filepath.Join(t.TempDir(), "dataset.db")

			store, err := NewDatabase(dbPath, true)
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.ImportTable(loadCSV(t, gdpCSV), "first.csv"))
			require.NoError(t, store.ImportTable(loadCSV(t, "nation,2020\nPeru,7k\n"), "second.csv"))

			loaded, err := store.LoadTable()
			require.NoError(t, err)
			assert.Equal(t, "nation", loaded.KeyColumn())
			assert.Equal(t, []string{"Peru"}, loaded.Countries())
			assert.Equal(t, []int{2020}, loaded.Years())
		})
	}
}

func TestInfo(t *testing.T) {
	for _, impl := range implementations {
		t.Run(impl, func(t *testing.T) {
			t.Setenv("DB_IMPL", impl)
			store, err := NewDatabase(filepath.Join(t.TempDir(), "dataset.db"), true)
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.ImportTable(loadCSV(t, gdpCSV), "gdp.csv"))

			info, err := store.Info()
			require.NoError(t, err)
			assert.Equal(t, "country", info.KeyColumn)
			assert.Equal(t, "gdp.csv", info.Source)
			assert.Equal(t, 3, info.Countries)
			assert.Equal(t, 3, info.Years)
			assert.Equal(t, 1990, info.MinYear)
			assert.Equal(t, 1992, info.MaxYear)
			assert.False(t, info.ImportedAt.IsZero())
		})
	}
}

func TestLoadTable_EmptyDatabase(t *testing.T) {
	for _, impl := range implementations {
		t.Run(impl, func(t *testing.T) {
			t.Setenv("DB_IMPL", impl)
			store, err := NewDatabase(filepath.Join(t.TempDir(), "dataset.db"), true)
			require.NoError(t, err)
			defer store.Close()

			_, err = store.LoadTable()
			assert.True(t, errors.Is(err, ErrNoDataset))

			_, err = store.Info()
			assert.True(t, errors.Is(err, ErrNoDataset))
		})
	}
}

func TestNew_UninitializedDatabase(t *testing.T) {
	// Given: a database file that was never imported into
	dbPath := filepath.Join(t.TempDir(), "dataset.db")

	// When: it is opened without creating the schema
	_, err := New(dbPath)

	// Then: the error tells the user to import
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDataset))
	assert.Contains(t, err.Error(), "gdpdash import")
}

func TestInitSchema_Idempotent(t *testing.T) {
	database, err := NewForTesting(filepath.Join(t.TempDir(), "dataset.db"))
	require.NoError(t, err)
	defer database.Close()

	created, err := database.InitSchema()
	require.NoError(t, err)
	assert.False(t, created, "schema already existed")
}

func TestNewDatabase_UnknownImplementation(t *testing.T) {
	t.Setenv("DB_IMPL", "duckdb")

	_, err := NewDatabase(filepath.Join(t.TempDir(), "dataset.db"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown DB_IMPL")
}

func TestDefaultPath_UsesXDGDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataHome, "gdpdash", "dataset.db"), path)

	database, err := NewForTesting("")
	require.NoError(t, err)
	defer database.Close()
	assert.Equal(t, path, database.Path())

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

// TestNewerSchemaIsRejected tests that a database written by a later
// version is not opened
func TestNewerSchemaIsRejected(t *testing.T) {
	// Given: a database whose schema version is ahead of this build
	dbPath := filepath.Join(t.TempDir(), "dataset.db")
	database, err := NewForTesting(dbPath)
	require.NoError(t, err)
	_, err = database.conn.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	// When/Then: both implementations refuse it
	_, err = New(dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")

	_, err = NewZ(dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

// TestLoadPath_MissingDatabaseCreatesNothing tests that reading a database
// that was never imported leaves the filesystem alone
func TestLoadPath_MissingDatabaseCreatesNothing(t *testing.T) {
	for _, impl := range implementations {
		t.Run(impl, func(t *testing.T) {
			// Given: no database at the default location
			t.Setenv("DB_IMPL", impl)
			dataHome := t.TempDir()
			t.Setenv("XDG_DATA_HOME", dataHome)

			// When: the table is loaded
			_, err := LoadPath("")

			// Then: the user is told to import and no file or directory appears
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoDataset))
			assert.NoDirExists(t, filepath.Join(dataHome, "gdpdash"))
		})
	}
}

package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chris/gdpdash/internal/config"
	"github.com/chris/gdpdash/internal/dataset"
	"github.com/chris/gdpdash/internal/db"
	"github.com/chris/gdpdash/pkg/models"
)

// sqliteMagic starts every SQLite database file
var sqliteMagic = []byte("SQLite format 3\x00")

// loadConfig reads --config over the defaults
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// dataSource returns the dataset path from --data or GDPDASH_DATA.
// An empty result means the dataset database.
func dataSource() string {
	if dataPath != "" {
		return dataPath
	}
	return os.Getenv("GDPDASH_DATA")
}

// loadTable loads the dataset from --data, GDPDASH_DATA or the database
func loadTable(cfg config.Config) (*models.Table, error) {
	src := dataSource()
	if src == "" {
		return db.LoadPath(dbPath)
	}
	if isDatabaseFile(src) {
		return db.LoadPath(src)
	}
	return dataset.LoadFile(src, dataset.Options{Delimiter: cfg.DelimiterRune()})
}

// isDatabaseFile reports whether path is a SQLite file, by extension or
// by its header
func isDatabaseFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	case ".csv", ".tsv", ".txt":
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, sqliteMagic)
}

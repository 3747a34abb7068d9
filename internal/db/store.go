package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/chris/gdpdash/internal/dataset"
	"github.com/chris/gdpdash/pkg/models"
)

// ErrNoDataset is returned when a database holds no imported table
var ErrNoDataset = errors.New("dataset not imported, run: gdpdash import")

const (
	metaKeyColumn  = "key_column"
	metaSource     = "source"
	metaImportedAt = "imported_at"
)

// Store is implemented by both DB and ZDB
type Store interface {
	Close() error
	Path() string
	ImportTable(table *models.Table, source string) error
	LoadTable() (*models.Table, error)
	Info() (*Info, error)
}

// Info describes the dataset held in a database
type Info struct {
	KeyColumn  string
	Source     string
	ImportedAt time.Time
	Countries  int
	Years      int
	MinYear    int
	MaxYear    int
}

// NewDatabase opens a store using the implementation specified by the DB_IMPL environment variable.
// DB_IMPL=zombiezen uses ZDB (zombiezen.com/go/sqlite)
// DB_IMPL=modernc or unset uses DB (modernc.org/sqlite)
// With create set the schema is initialized if missing; otherwise an
// uninitialized database is an error.
func NewDatabase(dbPath string, create bool) (Store, error) {
	if !create {
		if err := requireExisting(dbPath); err != nil {
			return nil, err
		}
	}

	switch impl := os.Getenv("DB_IMPL"); impl {
	case "zombiezen":
		return NewZ(dbPath)
	case "", "modernc":
		if create {
			return NewForTesting(dbPath)
		}
		return New(dbPath)
	default:
		return nil, fmt.Errorf("unknown DB_IMPL %q (want modernc or zombiezen)", impl)
	}
}

// requireExisting returns ErrNoDataset when no database file exists at
// dbPath, so read-only commands never create one
func requireExisting(dbPath string) error {
	path, err := resolvePath(dbPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNoDataset)
		}
		return fmt.Errorf("failed to stat database: %w", err)
	}
	return nil
}

// LoadPath opens the database at dbPath and returns its table
func LoadPath(dbPath string) (*models.Table, error) {
	store, err := NewDatabase(dbPath, false)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.LoadTable()
}

// tableSnapshot is the stored form of a table shared by both implementations
type tableSnapshot struct {
	keyColumn string
	years     []int
	countries []string
	// raw[i][j] is the text of countries[i] in years[j]
	raw [][]string
}

// assemble rebuilds the table through the regular loader so stored cells are
// normalized exactly as a fresh import would be
func (s *tableSnapshot) assemble() (*models.Table, error) {
	if s.keyColumn == "" {
		return nil, ErrNoDataset
	}

	header := make([]string, 0, len(s.years)+1)
	header = append(header, s.keyColumn)
	for _, y := range s.years {
		header = append(header, strconv.Itoa(y))
	}

	rows := make([][]string, len(s.countries))
	for i, c := range s.countries {
		row := make([]string, 0, len(s.years)+1)
		row = append(row, c)
		row = append(row, s.raw[i]...)
		rows[i] = row
	}

	table, err := dataset.Build(header, rows)
	if err != nil {
		return nil, fmt.Errorf("stored dataset is invalid: %w", err)
	}
	return table, nil
}

// yearPositions maps a year to its column in tableSnapshot.raw
func yearPositions(years []int) map[int]int {
	pos := make(map[int]int, len(years))
	for i, y := range years {
		pos[y] = i
	}
	return pos
}

func parseImportedAt(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

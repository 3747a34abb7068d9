package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chris/gdpdash/internal/db/migrations"
	"github.com/chris/gdpdash/pkg/models"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// Options configures database connection behavior
type Options struct {
	// SkipSchemaCheck opens the database without verifying schema exists.
	// Use this for the import command which creates the schema.
	SkipSchemaCheck bool
}

// New opens an existing dataset database
func New(dbPath string) (*DB, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a new database connection with configurable options
func NewWithOptions(dbPath string, opts Options) (*DB, error) {
	dbPath, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}

	if opts.SkipSchemaCheck {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else if err := requireExisting(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set busy timeout first, before any other operations that might need write locks
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if !opts.SkipSchemaCheck {
		var version int
		if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to check schema version: %w", err)
		}
		if version == 0 {
			conn.Close()
			return nil, ErrNoDataset
		}
		if err := migrations.CheckVersion(version); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// NewForTesting creates a new database with schema initialized.
// The import command uses it as well.
func NewForTesting(dbPath string) (*DB, error) {
	db, err := NewWithOptions(dbPath, Options{SkipSchemaCheck: true})
	if err != nil {
		return nil, err
	}

	if _, err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitSchema runs pending migrations.
// Returns true if schema was created, false if it already existed.
func (db *DB) InitSchema() (bool, error) {
	from, err := migrations.Migrate(db.conn)
	if err != nil {
		return false, err
	}
	return from == 0, nil
}

// ImportTable replaces the stored dataset with table in one transaction
func (db *DB) ImportTable(table *models.Table, source string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range []string{"cells", "countries", "years", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
	}

	meta := [][2]string{
		{metaKeyColumn, table.KeyColumn()},
		{metaSource, source},
		{metaImportedAt, strconv.FormatInt(time.Now().Unix(), 10)},
	}
	for _, kv := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write %s: %w", kv[0], err)
		}
	}

	for i, y := range table.Years() {
		if _, err := tx.Exec("INSERT INTO years (position, year) VALUES (?, ?)", i, y); err != nil {
			return fmt.Errorf("failed to insert year %d: %w", y, err)
		}
	}

	countryStmt, err := tx.Prepare("INSERT INTO countries (name, position) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare country insert: %w", err)
	}
	defer countryStmt.Close()

	cellStmt, err := tx.Prepare("INSERT INTO cells (country_id, year, raw, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer cellStmt.Close()

	position := 0
	table.Each(func(years []int, rec models.Record) {
		if err != nil {
			return
		}
		var result sql.Result
		result, err = countryStmt.Exec(rec.Country, position)
		if err != nil {
			err = fmt.Errorf("failed to insert %s: %w", rec.Country, err)
			return
		}
		position++

		var id int64
		if id, err = result.LastInsertId(); err != nil {
			return
		}
		for j, cell := range rec.Cells {
			if cell.Raw == "" {
				continue
			}
			var value any
			if cell.Numeric {
				value = cell.Value
			}
			if _, err = cellStmt.Exec(id, years[j], cell.Raw, value); err != nil {
				err = fmt.Errorf("failed to insert %s %d: %w", rec.Country, years[j], err)
				return
			}
		}
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// LoadTable reads the stored dataset back into a table
func (db *DB) LoadTable() (*models.Table, error) {
	var snap tableSnapshot

	err := db.conn.QueryRow("SELECT value FROM meta WHERE key = ?", metaKeyColumn).Scan(&snap.keyColumn)
	if err == sql.ErrNoRows {
		return nil, ErrNoDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset metadata: %w", err)
	}

	rows, err := db.conn.Query("SELECT year FROM years ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		snap.years = append(snap.years, y)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read years: %w", err)
	}

	rows, err = db.conn.Query("SELECT id, name FROM countries ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	rowOf := make(map[int64]int)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		rowOf[id] = len(snap.countries)
		snap.countries = append(snap.countries, name)
		snap.raw = append(snap.raw, make([]string, len(snap.years)))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}

	col := yearPositions(snap.years)
	rows, err = db.conn.Query("SELECT country_id, year, raw FROM cells")
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var year int
		var raw string
		if err := rows.Scan(&id, &year, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		i, ok := rowOf[id]
		j, ok2 := col[year]
		if !ok || !ok2 {
			continue
		}
		snap.raw[i][j] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cells: %w", err)
	}

	return snap.assemble()
}

// Info summarizes the stored dataset without loading the cells
func (db *DB) Info() (*Info, error) {
	meta := make(map[string]string)
	rows, err := db.conn.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	if meta[metaKeyColumn] == "" {
		return nil, ErrNoDataset
	}

	info := &Info{
		KeyColumn:  meta[metaKeyColumn],
		Source:     meta[metaSource],
		ImportedAt: parseImportedAt(meta[metaImportedAt]),
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM countries").Scan(&info.Countries); err != nil {
		return nil, fmt.Errorf("failed to count countries: %w", err)
	}
	var minYear, maxYear sql.NullInt64
	err = db.conn.QueryRow("SELECT COUNT(*), MIN(year), MAX(year) FROM years").Scan(&info.Years, &minYear, &maxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize years: %w", err)
	}
	info.MinYear = int(minYear.Int64)
	info.MaxYear = int(maxYear.Int64)

	return info, nil
}

package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/chris/gdpdash/internal/db/migrations"
	"github.com/chris/gdpdash/pkg/models"
)

// ZDB wraps the zombiezen SQLite database connection
type ZDB struct {
	conn *sqlite.Conn
	path string
}

// NewZ opens a database using zombiezen.com/go/sqlite and runs pending migrations
func NewZ(dbPath string) (*ZDB, error) {
	dbPath, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout=5000", nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	zdb := &ZDB{
		conn: conn,
		path: dbPath,
	}

	if err := zdb.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return zdb, nil
}

// migrate runs the shared migrations against PRAGMA user_version
func (zdb *ZDB) migrate() error {
	var version int
	err := sqlitex.ExecuteTransient(zdb.conn, "PRAGMA user_version", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if err := migrations.CheckVersion(version); err != nil {
		return err
	}

	for i := version; i < len(migrations.All); i++ {
		if err := sqlitex.ExecuteScript(zdb.conn, migrations.All[i], nil); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if err := sqlitex.ExecuteTransient(zdb.conn, fmt.Sprintf("PRAGMA user_version = %d", i+1), nil); err != nil {
			return fmt.Errorf("failed to set schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// Close closes the database connection
func (zdb *ZDB) Close() error {
	return zdb.conn.Close()
}

// Path returns the database file path
func (zdb *ZDB) Path() string {
	return zdb.path
}

// ImportTable replaces the stored dataset with table inside a savepoint
func (zdb *ZDB) ImportTable(table *models.Table, source string) (err error) {
	defer sqlitex.Save(zdb.conn)(&err)

	for _, name := range []string{"cells", "countries", "years", "meta"} {
		if err := sqlitex.ExecuteTransient(zdb.conn, "DELETE FROM "+name, nil); err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
	}

	meta := [][2]string{
		{metaKeyColumn, table.KeyColumn()},
		{metaSource, source},
		{metaImportedAt, strconv.FormatInt(time.Now().Unix(), 10)},
	}
	for _, kv := range meta {
		err := sqlitex.Execute(zdb.conn, "INSERT INTO meta (key, value) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{kv[0], kv[1]},
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", kv[0], err)
		}
	}

	for i, y := range table.Years() {
		err := sqlitex.Execute(zdb.conn, "INSERT INTO years (position, year) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{i, y},
		})
		if err != nil {
			return fmt.Errorf("failed to insert year %d: %w", y, err)
		}
	}

	position := 0
	table.Each(func(years []int, rec models.Record) {
		if err != nil {
			return
		}
		err = sqlitex.Execute(zdb.conn, "INSERT INTO countries (name, position) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{rec.Country, position},
		})
		if err != nil {
			err = fmt.Errorf("failed to insert %s: %w", rec.Country, err)
			return
		}
		position++

		id := zdb.conn.LastInsertRowID()
		for j, cell := range rec.Cells {
			if cell.Raw == "" {
				continue
			}
			var value any
			if cell.Numeric {
				value = cell.Value
			}
			err = sqlitex.Execute(zdb.conn, "INSERT INTO cells (country_id, year, raw, value) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
				Args: []any{id, years[j], cell.Raw, value},
			})
			if err != nil {
				err = fmt.Errorf("failed to insert %s %d: %w", rec.Country, years[j], err)
				return
			}
		}
	})

	return err
}

// LoadTable reads the stored dataset back into a table
func (zdb *ZDB) LoadTable() (*models.Table, error) {
	var snap tableSnapshot

	err := sqlitex.Execute(zdb.conn, "SELECT value FROM meta WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{metaKeyColumn},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			snap.keyColumn = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset metadata: %w", err)
	}
	if snap.keyColumn == "" {
		return nil, ErrNoDataset
	}

	err = sqlitex.Execute(zdb.conn, "SELECT year FROM years ORDER BY position", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			snap.years = append(snap.years, stmt.ColumnInt(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}

	rowOf := make(map[int64]int)
	err = sqlitex.Execute(zdb.conn, "SELECT id, name FROM countries ORDER BY position", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowOf[stmt.ColumnInt64(0)] = len(snap.countries)
			snap.countries = append(snap.countries, stmt.ColumnText(1))
			snap.raw = append(snap.raw, make([]string, len(snap.years)))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}

	col := yearPositions(snap.years)
	err = sqlitex.Execute(zdb.conn, "SELECT country_id, year, raw FROM cells", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			i, ok := rowOf[stmt.ColumnInt64(0)]
			j, ok2 := col[stmt.ColumnInt(1)]
			if ok && ok2 {
				snap.raw[i][j] = stmt.ColumnText(2)
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}

	return snap.assemble()
}

// Info summarizes the stored dataset without loading the cells
func (zdb *ZDB) Info() (*Info, error) {
	meta := make(map[string]string)
	err := sqlitex.Execute(zdb.conn, "SELECT key, value FROM meta", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			meta[stmt.ColumnText(0)] = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	if meta[metaKeyColumn] == "" {
		return nil, ErrNoDataset
	}

	info := &Info{
		KeyColumn:  meta[metaKeyColumn],
		Source:     meta[metaSource],
		ImportedAt: parseImportedAt(meta[metaImportedAt]),
	}
	err = sqlitex.Execute(zdb.conn, "SELECT COUNT(*) FROM countries", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			info.Countries = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count countries: %w", err)
	}
	err = sqlitex.Execute(zdb.conn, "SELECT COUNT(*), MIN(year), MAX(year) FROM years", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			info.Years = stmt.ColumnInt(0)
			info.MinYear = stmt.ColumnInt(1)
			info.MaxYear = stmt.ColumnInt(2)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize years: %w", err)
	}

	return info, nil
}

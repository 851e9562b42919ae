package iterators

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ygrebnov/distributor"
)

// SQL admits one tuple per row returned by Query.
//
// FetchKeyColumn is required. EmitKeyColumn defaults to the fetch key and IDColumn to
// the row number. Every other column is copied into the item metadata.
type SQL struct {
	DB             *sql.DB
	Query          string
	Args           []any
	IDColumn       string
	FetchKeyColumn string
	EmitKeyColumn  string
}

// OpenSQLite opens a SQLite database at path using the pure Go driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

func (s SQL) Enumerate(ctx context.Context, a distributor.Admitter) error {
	if s.DB == nil || s.Query == "" || s.FetchKeyColumn == "" {
		return fmt.Errorf("sql iterator: db, query and fetch key column are required")
	}

	rows, err := s.DB.QueryContext(ctx, s.Query, s.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	fetchIdx, emitIdx, idIdx := -1, -1, -1
	for i, c := range cols {
		if c == s.FetchKeyColumn {
			fetchIdx = i
		}
		if s.EmitKeyColumn != "" && c == s.EmitKeyColumn {
			emitIdx = i
		}
		if s.IDColumn != "" && c == s.IDColumn {
			idIdx = i
		}
	}
	if fetchIdx < 0 {
		return fmt.Errorf("sql iterator: column %q not in result", s.FetchKeyColumn)
	}

	d := a.Defaults()
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return err
		}

		if !values[fetchIdx].Valid || values[fetchIdx].String == "" {
			return fmt.Errorf("sql iterator: row %d: empty fetch key", row)
		}
		fetchKey := values[fetchIdx].String
		emitKey := fetchKey
		if emitIdx >= 0 && values[emitIdx].Valid {
			emitKey = values[emitIdx].String
		}
		id := fmt.Sprint(row)
		if idIdx >= 0 && values[idIdx].Valid {
			id = values[idIdx].String
		}

		item := d.Tuple(id, fetchKey, emitKey)
		for i, c := range cols {
			if i == fetchIdx || i == emitIdx || i == idIdx || !values[i].Valid {
				continue
			}
			if item.Metadata == nil {
				item.Metadata = make(map[string]string)
			}
			item.Metadata[c] = values[i].String
		}

		if err := a.Admit(ctx, item); err != nil {
			return err
		}
	}
	return rows.Err()
}

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "sjsage522/jobharvester/pkg/errors"

	_ "modernc.org/sqlite"
)

const listingsTable = "listings"

// SQLiteStore persists a dataset as one table of TEXT columns in a SQLite
// database. Absent cells are stored as NULL.
type SQLiteStore struct {
	Path string
}

// NewSQLiteStore creates a SQLite store at path
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{Path: path}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", s.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.NewPersistence(s.Path, "open database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewPersistence(s.Path, "ping database", err)
	}
	return db, nil
}

// Load reads the listings table; a missing table is an empty dataset
func (s *SQLiteStore) Load(ctx context.Context) (Dataset, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Dataset{}, err
	}
	defer db.Close()

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, listingsTable).Scan(&name)
	if err == sql.ErrNoRows {
		return Dataset{}, nil
	}
	if err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "inspect schema", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(listingsTable)+` ORDER BY rowid`)
	if err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "query listings", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "read columns", err)
	}

	d := Dataset{Columns: columns}
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Dataset{}, apperrors.NewPersistence(s.Path, "scan row", err)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = cells[i].String
		}
		d.Rows = append(d.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "iterate rows", err)
	}
	return d, nil
}

// Save replaces the listings table in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, d Dataset) error {
	if len(d.Columns) == 0 {
		return apperrors.NewPersistence(s.Path, "dataset has no columns", nil)
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewPersistence(s.Path, "begin transaction", err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(d.Columns))
	definitions := make([]string, len(d.Columns))
	placeholders := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		quoted[i] = quoteIdent(c)
		definitions[i] = quoted[i] + " TEXT"
		placeholders[i] = "?"
	}

	table := quoteIdent(listingsTable)
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return apperrors.NewPersistence(s.Path, "drop listings", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+table+` (`+strings.Join(definitions, ", ")+`)`); err != nil {
		return apperrors.NewPersistence(s.Path, "create listings", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+table+` (`+strings.Join(quoted, ", ")+`) VALUES (`+strings.Join(placeholders, ", ")+`)`)
	if err != nil {
		return apperrors.NewPersistence(s.Path, "prepare insert", err)
	}
	defer stmt.Close()

	args := make([]any, len(d.Columns))
	for _, row := range d.Rows {
		for i, c := range d.Columns {
			args[i] = sql.NullString{String: row[c], Valid: row[c] != ""}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.NewPersistence(s.Path, "insert row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewPersistence(s.Path, "commit", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

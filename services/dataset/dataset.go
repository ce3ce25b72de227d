// Package dataset holds the persisted table of harvested listings and the
// merge that folds a new batch into it.
package dataset

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
)

// Row maps column names to cell values; a missing or empty cell is absent
type Row map[string]string

// Dataset is an ordered table of rows sharing a column set
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Concat returns d followed by other. Columns are the union of both sets,
// d's columns first.
func (d Dataset) Concat(other Dataset) Dataset {
	columns := slices.Clone(d.Columns)
	for _, c := range other.Columns {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}

	rows := make([]Row, 0, len(d.Rows)+len(other.Rows))
	rows = append(rows, d.Rows...)
	rows = append(rows, other.Rows...)
	return Dataset{Columns: columns, Rows: rows}
}

// Values returns the cells of row in column order
func (d Dataset) Values(row Row) []string {
	values := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		values[i] = row[c]
	}
	return values
}

// Store loads and saves a whole dataset
type Store interface {
	// Load returns the persisted dataset; a missing one is empty, not an error
	Load(ctx context.Context) (Dataset, error)

	// Save fully replaces the persisted dataset
	Save(ctx context.Context, d Dataset) error
}

// NewStore picks the store for path by extension: .db, .sqlite and .sqlite3
// are SQLite databases, anything else is a CSV file
func NewStore(path string) Store {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	default:
		return NewCSVStore(path)
	}
}

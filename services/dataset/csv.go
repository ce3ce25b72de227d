package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	apperrors "sjsage522/jobharvester/pkg/errors"
)

// CSVStore persists a dataset as a CSV file with a header row
type CSVStore struct {
	Path string
}

// NewCSVStore creates a CSV store at path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// Load reads the CSV file; a missing file is an empty dataset
func (s *CSVStore) Load(ctx context.Context) (Dataset, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Dataset{}, nil
	}
	if err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "open dataset", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, nil
	}
	if err != nil {
		return Dataset{}, apperrors.NewPersistence(s.Path, "read header", err)
	}

	d := Dataset{Columns: header}
	for {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, apperrors.NewPersistence(s.Path, "read row", err)
		}
		row := make(Row, len(header))
		for i, c := range header {
			row[c] = record[i]
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// Save writes the dataset to a temporary file next to Path and renames it
// over Path, so readers see either the old or the new table
func (s *CSVStore) Save(ctx context.Context, d Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return apperrors.NewPersistence(s.Path, "create temporary file", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(d.Columns); err != nil {
		tmp.Close()
		return apperrors.NewPersistence(s.Path, "write header", err)
	}
	for _, row := range d.Rows {
		if err := w.Write(d.Values(row)); err != nil {
			tmp.Close()
			return apperrors.NewPersistence(s.Path, "write row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return apperrors.NewPersistence(s.Path, "flush dataset", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewPersistence(s.Path, "close temporary file", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return apperrors.NewPersistence(s.Path, "replace dataset", err)
	}
	return nil
}

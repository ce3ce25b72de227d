package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "sjsage522/jobharvester/pkg/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Columns: []string{"job_id", "title", "min_salary", "technical keywords"},
		Rows: []Row{
			{"job_id": "IN1", "title": "Data Engineer", "min_salary": "40000", "technical keywords": "python, sql"},
			{"job_id": "", "title": "Ingénieur \"Big Data\"", "min_salary": "", "technical keywords": ""},
		},
	}
}

func TestStores(t *testing.T) {
	stores := map[string]func(dir string) Store{
		"csv":    func(dir string) Store { return NewCSVStore(filepath.Join(dir, "data.csv")) },
		"sqlite": func(dir string) Store { return NewSQLiteStore(filepath.Join(dir, "data.db")) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t.TempDir())

			empty, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, empty.Len())

			require.NoError(t, store.Save(ctx, sampleDataset()))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(sampleDataset(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// Save overwrites instead of appending
			smaller := Dataset{Columns: []string{"job_id"}, Rows: []Row{{"job_id": "IN9"}}}
			require.NoError(t, store.Save(ctx, smaller))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(smaller, got); diff != "" {
				t.Errorf("overwrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCSVStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(filepath.Join(dir, "data.csv"))
	require.NoError(t, store.Save(context.Background(), sampleDataset()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.csv", entries[0].Name())
}

func TestCSVStoreCancelledSaveKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	store := NewCSVStore(path)
	require.NoError(t, store.Save(context.Background(), sampleDataset()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := store.Save(ctx, Dataset{Columns: []string{"job_id"}})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestCSVStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("job_id,title\nIN1\n"), 0o644))

	_, err := NewCSVStore(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
}

func TestCSVStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	d, err := NewCSVStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

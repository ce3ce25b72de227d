package dataset

import (
	"context"
	"fmt"

	"sjsage522/jobharvester/logger"
)

// DefaultKey is the column rows are deduplicated on
const DefaultKey = "job_id"

// MergeResult describes what a merge did to the persisted dataset
type MergeResult struct {
	Prior      int
	Incoming   int
	Written    int
	Duplicates int
	// Unresolved counts incoming rows without a key; they are always kept
	Unresolved int
	// Added holds the incoming rows that were not already persisted
	Added []Row
}

// Merger folds batches into the dataset held by a Store
type Merger struct {
	Store Store
	Key   string
	log   *logger.Logger
}

// NewMerger creates a merger deduplicating on DefaultKey
func NewMerger(store Store) *Merger {
	return &Merger{
		Store: store,
		Key:   DefaultKey,
		log:   logger.ForDataset(),
	}
}

// Merge loads the persisted dataset, appends batch after it, keeps the first
// row seen for each key and writes the result back over the old dataset.
// Prior rows therefore win over newly scraped rows with the same key.
func (m *Merger) Merge(ctx context.Context, batch Dataset) (MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return MergeResult{}, err
	}

	prior, err := m.Store.Load(ctx)
	if err != nil {
		return MergeResult{}, fmt.Errorf("load dataset: %w", err)
	}

	combined := prior.Concat(batch)
	result := MergeResult{Prior: prior.Len(), Incoming: batch.Len()}

	seen := make(map[string]struct{}, combined.Len())
	kept := make([]Row, 0, combined.Len())
	for i, row := range combined.Rows {
		incoming := i >= prior.Len()
		id := row[m.Key]
		if id == "" {
			if incoming {
				result.Unresolved++
				result.Added = append(result.Added, row)
			}
			kept = append(kept, row)
			continue
		}
		if _, dup := seen[id]; dup {
			if incoming {
				result.Duplicates++
			}
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, row)
		if incoming {
			result.Added = append(result.Added, row)
		}
	}
	combined.Rows = kept
	result.Written = len(kept)

	if err := m.Store.Save(ctx, combined); err != nil {
		return MergeResult{}, fmt.Errorf("save dataset: %w", err)
	}

	m.logger().Info().
		Int("prior", result.Prior).
		Int("incoming", result.Incoming).
		Int("written", result.Written).
		Int("duplicates", result.Duplicates).
		Int("unresolved", result.Unresolved).
		Msg("Dataset merged")
	if result.Unresolved > 0 {
		m.logger().Warn().Int("unresolved", result.Unresolved).Msg("Rows without a job id cannot be deduplicated")
	}
	return result, nil
}

func (m *Merger) logger() *logger.Logger {
	if m.log == nil {
		m.log = logger.ForDataset()
	}
	return m.log
}

package worker

import (
	"context"
	"fmt"
	"slices"
	"time"

	"sjsage522/jobharvester/internal/crawler"
	"sjsage522/jobharvester/logger"
	"sjsage522/jobharvester/services/dataset"

	"golang.org/x/sync/errgroup"
)

// SourceStats describes one source's contribution to a run
type SourceStats struct {
	Name     string
	Provider string
	Records  int
	Elapsed  time.Duration
}

// Aggregate drains every source concurrently and concatenates their records
// in source order; within a source, record order is kept. The columns are
// those of the first record, or the canonical schema when nothing was found.
// When ctx is cancelled the partial batch is returned with ctx's error.
func Aggregate(ctx context.Context, sources []crawler.Source) (dataset.Dataset, []SourceStats, error) {
	results := make([][]crawler.ListingRecord, len(sources))
	stats := make([]SourceStats, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sources {
		g.Go(func() error {
			start := time.Now()
			for record := range s.Records(gctx) {
				results[i] = append(results[i], record)
			}
			stats[i] = SourceStats{
				Name:     s.GetName(),
				Provider: s.GetProvider(),
				Records:  len(results[i]),
				Elapsed:  time.Since(start),
			}
			logger.ForSource(s.GetProvider()).Info().
				Str("name", stats[i].Name).
				Int("records", stats[i].Records).
				Dur("elapsed", stats[i].Elapsed).
				Msg("Source finished")
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("source %s interrupted: %w", stats[i].Name, err)
			}
			return nil
		})
	}
	err := g.Wait()

	var records []crawler.ListingRecord
	for _, r := range results {
		records = append(records, r...)
	}

	d := dataset.Dataset{Columns: slices.Clone(crawler.CanonicalColumns)}
	if len(records) > 0 {
		d.Columns = records[0].Columns()
	}
	d.Rows = make([]dataset.Row, 0, len(records))
	for _, record := range records {
		d.Rows = append(d.Rows, project(record.Row(), d.Columns))
	}
	return d, stats, err
}

// project keeps only the given columns of row
func project(row map[string]string, columns []string) dataset.Row {
	out := make(dataset.Row, len(columns))
	for _, c := range columns {
		out[c] = row[c]
	}
	return out
}

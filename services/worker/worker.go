package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sjsage522/jobharvester/internal/crawler"
	"sjsage522/jobharvester/logger"
	"sjsage522/jobharvester/services/dataset"
	"sjsage522/jobharvester/services/publisher"

	"github.com/robfig/cron/v3"
)

// PublishKey is the stream field new listings are published under
const PublishKey = "listing"

// Summary reports the outcome of one harvesting run
type Summary struct {
	Sources []SourceStats
	Merge   dataset.MergeResult
	Elapsed time.Duration
}

// Worker handles the harvest, merge and publish process
type Worker struct {
	sources   []crawler.Source
	merger    *dataset.Merger
	publisher publisher.Publisher
	interval  time.Duration
	log       *logger.Logger

	// OnRun is called after every run with its summary
	OnRun func(Summary, error)
}

// NewWorker creates a new worker. pub may be nil; an interval of zero runs once.
func NewWorker(
	sources []crawler.Source,
	merger *dataset.Merger,
	pub publisher.Publisher,
	interval time.Duration,
) *Worker {
	return &Worker{
		sources:   sources,
		merger:    merger,
		publisher: pub,
		interval:  interval,
		log:       logger.ForWorker(),
	}
}

// Start runs the worker. With no interval it runs once and returns the run's
// error; otherwise it runs now and then on every tick until ctx is done.
// It returns once every started run, the first included, has finished.
func (w *Worker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		summary, err := w.RunOnce(ctx)
		w.report(summary, err)
		return err
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log: w.log})).Then(cron.FuncJob(func() {
		summary, err := w.RunOnce(ctx)
		w.report(summary, err)
	}))

	c := cron.New(cron.WithLogger(cronLogger{log: w.log}))
	c.Schedule(cron.Every(w.interval), job)
	c.Start()
	w.log.Info().Dur("interval", w.interval).Msg("Scheduler started")

	// Run immediately on startup
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		job.Run()
	}()

	<-ctx.Done()
	<-c.Stop().Done()
	<-firstDone
	w.log.Info().Msg("Scheduler stopped")
	return nil
}

// RunOnce harvests every source, merges the batch into the dataset and
// publishes the listings that were not persisted before
func (w *Worker) RunOnce(ctx context.Context) (Summary, error) {
	start := time.Now()
	batch, stats, err := Aggregate(ctx, w.sources)
	summary := Summary{Sources: stats}

	if err != nil {
		summary.Elapsed = time.Since(start)
		return summary, fmt.Errorf("run cancelled before merge: %w", err)
	}

	result, err := w.merger.Merge(ctx, batch)
	summary.Merge = result
	summary.Elapsed = time.Since(start)
	if err != nil {
		return summary, err
	}

	w.publish(ctx, result.Added)
	return summary, nil
}

// publish sends each added row as JSON. Failures are logged, not returned:
// the dataset is already written at this point.
func (w *Worker) publish(ctx context.Context, rows []dataset.Row) {
	if w.publisher == nil || len(rows) == 0 {
		return
	}

	published := 0
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			logger.LogError("worker", err, "Failed to encode listing %s", row[crawler.ColumnID])
			continue
		}
		if err := w.publisher.Publish(ctx, PublishKey, data); err != nil {
			logger.LogError("worker", err, "Failed to publish listing %s", row[crawler.ColumnID])
			continue
		}
		published++
	}

	if err := w.publisher.TrimStreams(ctx); err != nil {
		logger.LogError("worker", err, "Failed to trim streams")
	}
	w.log.Info().Int("published", published).Int("added", len(rows)).Msg("Published new listings")
}

func (w *Worker) report(summary Summary, err error) {
	if err != nil {
		w.log.Error().Err(err).Msg("Run failed")
	} else {
		w.log.Info().
			Int("written", summary.Merge.Written).
			Int("added", len(summary.Merge.Added)).
			Dur("elapsed", summary.Elapsed).
			Msg("Run finished")
	}
	if w.OnRun != nil {
		w.OnRun(summary, err)
	}
}

// cronLogger forwards cron's messages to the worker logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

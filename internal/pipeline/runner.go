package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hadproc/cmorval/cmorval"
	"github.com/hadproc/cmorval/internal/source"
)

// Runner fans per-file validation out across a worker pool. Files are
// independent — no state is shared between them — so the only
// coordination is the final reduction into the run summary. Results
// are sorted by path so identical inputs always produce an identical
// summary regardless of worker scheduling.
type Runner struct {
	pipeline *Pipeline
	workers  int
	logger   *slog.Logger
}

// NewRunner builds a runner. workers < 1 falls back to serial
// execution; a nil logger falls back to slog.Default().
func NewRunner(p *Pipeline, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pipeline: p, workers: workers, logger: logger}
}

// Run validates every candidate the iterator yields and aggregates the
// results. A file's failure never affects another file and never
// aborts the run; the only returned errors are listing failures and
// context cancellation.
func (r *Runner) Run(ctx context.Context, files source.Iterator) (*cmorval.RunSummary, error) {
	defer func() { _ = files.Close() }()

	started := time.Now()
	jobs := make(chan cmorval.Candidate)
	results := make(chan cmorval.Result)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results <- r.pipeline.Validate(ctx, c)
			}
		}()
	}

	var collected []cmorval.Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			collected = append(collected, res)
		}
	}()

feed:
	for files.Next() {
		select {
		case jobs <- files.Candidate():
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	if err := files.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].Path < collected[j].Path })

	summary := &cmorval.RunSummary{
		RunID:      uuid.NewString(),
		Convention: r.pipeline.opts.Convention,
		StartedAt:  started.UTC(),
		Duration:   time.Since(started),
		Total:      len(collected),
		Results:    collected,
	}
	for _, res := range collected {
		if res.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	summary.Pass = summary.Failed == 0

	r.logger.Info("validation run complete",
		"run_id", summary.RunID,
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"duration", summary.Duration)
	return summary, nil
}

package filter

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/evaluation"
)

// Pipeline runs an ordered list of filters over evaluations.
type Pipeline struct {
	filters []Filter

	// ShortCircuit stops a variant's run at its first failing filter.
	ShortCircuit bool
	// SkipOnError logs and skips variants whose run fails instead of
	// aborting RunAll.
	SkipOnError bool

	logger *zap.Logger
}

// NewPipeline creates a pipeline running filters in the given order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{
		filters: filters,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger used for skipped variants and run summaries.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Filters returns the filters in run order.
func (p *Pipeline) Filters() []Filter {
	return append([]Filter(nil), p.filters...)
}

// Run evaluates every filter against ev in order and records each result
// under runID. A filter producing a second result of the same type within a
// run returns an error matching evaluation.ErrFilterMisuse.
func (p *Pipeline) Run(runID string, ev *evaluation.Evaluation) error {
	for _, f := range p.filters {
		r := f.Evaluate(ev)
		if r.Type != f.Type() {
			return fmt.Errorf("%w: filter %s returned a %s result", evaluation.ErrFilterMisuse, f.Type(), r.Type)
		}
		if err := ev.Record(runID, r); err != nil {
			return err
		}
		if p.ShortCircuit && !r.Passed() {
			break
		}
	}
	return nil
}

// WorkItem is one evaluation queued for filtering.
type WorkItem struct {
	Seq        int
	Evaluation *evaluation.Evaluation
}

// WorkResult is the outcome of filtering one evaluation.
type WorkResult struct {
	Seq        int
	Evaluation *evaluation.Evaluation
	Err        error
}

// Parallel runs the pipeline over work items using a pool of workers.
// Results are sent in arrival order; use OrderedCollect to consume them in
// sequence order. If workers is 0, runtime.NumCPU() is used.
func (p *Pipeline) Parallel(runID string, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:        item.Seq,
					Evaluation: item.Evaluation,
					Err:        p.Run(runID, item.Evaluation),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// RunAll filters evs in parallel under a fresh run id, which it returns.
// Filters for a single variant run in order. The first error in input order
// aborts the run unless SkipOnError is set.
func (p *Pipeline) RunAll(ctx context.Context, evs []*evaluation.Evaluation, workers int) (string, error) {
	runID := uuid.NewString()

	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i, ev := range evs {
			select {
			case items <- WorkItem{Seq: i, Evaluation: ev}:
			case <-feedCtx.Done():
				return
			}
		}
	}()

	var skipped int
	err := OrderedCollect(p.Parallel(runID, items, workers), func(r WorkResult) error {
		if r.Err == nil {
			return nil
		}
		if p.SkipOnError {
			skipped++
			p.logger.Warn("skipping variant",
				zap.String("run", runID),
				zap.String("variant", r.Evaluation.Variant().Key().String()),
				zap.Error(r.Err))
			return nil
		}
		stopFeed()
		return fmt.Errorf("variant %s: %w", r.Evaluation.Variant().Key(), r.Err)
	})
	if err != nil {
		return runID, err
	}
	if err := ctx.Err(); err != nil {
		return runID, err
	}

	p.logger.Info("filter run complete",
		zap.String("run", runID),
		zap.Int("variants", len(evs)),
		zap.Int("skipped", skipped))
	return runID, nil
}

package runner

import (
	"context"
	"sync"
	"time"

	"barrage/internal/executor"
)

// Batch is the complete set of outcomes produced by one runner invocation,
// ordered by completion time, plus the invocation's wall-clock duration.
type Batch struct {
	Outcomes []executor.Outcome
	Duration time.Duration
}

// Runner dispatches a fixed number of requests through a closed-loop
// concurrency window.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run executes the configured number of requests with at most
// Options.Concurrency in flight at any instant and returns once every
// outcome has been collected. Individual request failures are data in the
// batch; Run itself cannot fail.
func (r *Runner) Run(ctx context.Context) Batch {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	total := r.opt.TotalRequests
	if total == 0 {
		return Batch{Duration: time.Since(start)}
	}

	// Never park more workers than there are requests: effective concurrency
	// is min(C, N).
	workers := r.opt.Concurrency
	if workers > total {
		workers = total
	}

	permits := make(chan struct{}, workers)
	results := make(chan executor.Outcome, workers)
	limiter := r.opt.LimiterFactory(r.opt.RatePerSecond)

	// Scheduler: serializes pacing so bursts cannot overshoot across workers.
	// Each permit corresponds to exactly one dispatched request.
	go func() {
		defer close(permits)
		for dispatched := 0; dispatched < total; dispatched++ {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					// Context gone; stop pacing but keep issuing permits so
					// the batch still resolves into N outcomes.
					limiter = nil
				}
			}
			permits <- struct{}{}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for range permits {
				results <- r.opt.Executor.Execute(ctx)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector goroutine: outcome recording and progress reporting
	// need no further synchronization.
	outcomes := make([]executor.Outcome, 0, total)
	for outcome := range results {
		outcomes = append(outcomes, outcome)
		if r.opt.OnProgress != nil {
			r.opt.OnProgress(len(outcomes), total)
		}
	}

	return Batch{
		Outcomes: outcomes,
		Duration: time.Since(start),
	}
}

package runner

import (
	"context"

	"golang.org/x/time/rate"

	"barrage/internal/executor"
)

// Executor abstracts performing a single request. Implementations resolve
// every failure mode into the returned outcome; they never panic or error.
type Executor interface {
	Execute(ctx context.Context) executor.Outcome
}

// ProgressFunc observes incremental progress. It is invoked after every
// completed request with the number of collected outcomes and the planned
// total, always from a single goroutine.
type ProgressFunc func(completed, total int)

// Options configure the Runner.
type Options struct {
	Concurrency    int                         // max simultaneously in-flight requests
	TotalRequests  int                         // number of requests to dispatch
	RatePerSecond  int                         // dispatch pacing cap (0 means unlimited)
	Executor       Executor                    // request executor (required)
	OnProgress     ProgressFunc                // optional progress observer
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	// A zero-concurrency window can never complete; clamp rather than hang.
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.TotalRequests < 0 {
		o.TotalRequests = 0
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

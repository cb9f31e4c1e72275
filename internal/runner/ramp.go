package runner

import (
	"context"
	"time"

	"barrage/internal/executor"
)

// RampStep describes one concurrency plateau of a ramp run.
type RampStep struct {
	Index       int `json:"step"`
	Concurrency int `json:"concurrency"`
	Requests    int `json:"requests"`
}

// RampRunner executes a sequence of flat runs with monotonically increasing
// concurrency and concatenates their outcomes into a single batch. Steps run
// strictly sequentially: the point is to observe behavior at discrete
// plateaus, not to maximize throughput.
type RampRunner struct {
	opt   Options
	steps []RampStep
}

// NewRamp builds a ramp runner over opt with the given number of steps.
func NewRamp(opt Options, steps int) *RampRunner {
	opt.normalize()
	return &RampRunner{
		opt:   opt,
		steps: PlanSteps(opt.Concurrency, opt.TotalRequests, steps),
	}
}

// PlanSteps computes the per-step concurrency and request count. Step k runs
// at min(ceil(C/steps)*k, C), so the final step always reaches the configured
// concurrency. Every step issues ceil(N/steps) requests; the combined total
// may overshoot N by up to steps-1 requests. That rounding slack is accepted,
// not corrected.
func PlanSteps(concurrency, totalRequests, steps int) []RampStep {
	if steps < 1 {
		steps = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if totalRequests < 0 {
		totalRequests = 0
	}

	increment := ceilDiv(concurrency, steps)
	perStep := ceilDiv(totalRequests, steps)

	plan := make([]RampStep, 0, steps)
	for k := 1; k <= steps; k++ {
		stepConcurrency := increment * k
		if stepConcurrency > concurrency {
			stepConcurrency = concurrency
		}
		plan = append(plan, RampStep{
			Index:       k,
			Concurrency: stepConcurrency,
			Requests:    perStep,
		})
	}
	return plan
}

// Steps returns the planned plateaus.
func (r *RampRunner) Steps() []RampStep {
	return append([]RampStep(nil), r.steps...)
}

// Run executes every step in order and returns the concatenated outcomes
// with the total wall-clock duration across all steps.
func (r *RampRunner) Run(ctx context.Context) Batch {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	overallTotal := 0
	for _, step := range r.steps {
		overallTotal += step.Requests
	}

	accumulated := make([]executor.Outcome, 0, overallTotal)
	collected := 0
	for _, step := range r.steps {
		base := collected
		stepOpt := r.opt
		stepOpt.Concurrency = step.Concurrency
		stepOpt.TotalRequests = step.Requests
		if r.opt.OnProgress != nil {
			stepOpt.OnProgress = func(completed, _ int) {
				r.opt.OnProgress(base+completed, overallTotal)
			}
		}

		stepBatch := New(stepOpt).Run(ctx)
		accumulated = append(accumulated, stepBatch.Outcomes...)
		collected += len(stepBatch.Outcomes)
	}

	return Batch{
		Outcomes: accumulated,
		Duration: time.Since(start),
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

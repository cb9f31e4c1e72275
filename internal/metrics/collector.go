// Package metrics holds the live, thread-safe view of an in-progress run.
// It backs the progress line and dashboard only; final report numbers are
// computed by the stats package from the raw outcome batch, so histogram
// quantization never touches the report.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"barrage/internal/executor"
)

// Collector records per-request outcomes as they resolve.
type Collector struct {
	mu          sync.Mutex
	hist        *hdrhistogram.Histogram
	successes   int64
	failures    int64
	minLatency  time.Duration
	maxLatency  time.Duration
	sumLatency  time.Duration
	statusCodes map[int]int64
	errors      map[string]int64
	start       time.Time
}

// Snapshot is a point-in-time aggregate of the live collector.
type Snapshot struct {
	Total          int64
	Successes      int64
	Failures       int64
	RequestsPerSec float64
	MinLatencyMs   float64
	MaxLatencyMs   float64
	MeanLatencyMs  float64
	P50LatencyMs   float64
	P90LatencyMs   float64
	P99LatencyMs   float64
	StatusCodes    map[int]int64
	Errors         map[string]int64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		hist:        h,
		statusCodes: make(map[int]int64),
		errors:      make(map[string]int64),
		start:       time.Now(),
	}
}

// Start marks the actual start of the run so elapsed-based rates are not
// skewed by setup time between construction and dispatch.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Record folds one resolved outcome into the live aggregates.
func (c *Collector) Record(outcome executor.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if outcome.Latency > 0 {
		us := outcome.Latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += outcome.Latency

	if c.minLatency == 0 || outcome.Latency < c.minLatency {
		c.minLatency = outcome.Latency
	}
	if outcome.Latency > c.maxLatency {
		c.maxLatency = outcome.Latency
	}

	c.statusCodes[outcome.StatusCode]++
	if outcome.Success() {
		c.successes++
	} else {
		c.failures++
	}
	if outcome.Err != "" {
		c.errors[outcome.Err]++
	}
}

// Stats returns the current aggregates. When elapsed is zero the time since
// Start is used.
func (c *Collector) Stats(elapsed time.Duration) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed <= 0 {
		elapsed = time.Since(c.start)
	}

	total := c.successes + c.failures
	snap := Snapshot{
		Total:        total,
		Successes:    c.successes,
		Failures:     c.failures,
		MinLatencyMs: toMs(c.minLatency),
		MaxLatencyMs: toMs(c.maxLatency),
	}

	if total > 0 {
		snap.MeanLatencyMs = toMs(c.sumLatency) / float64(total)
	}

	if c.hist.TotalCount() > 0 {
		snap.P50LatencyMs = float64(c.hist.ValueAtQuantile(50)) / 1000
		snap.P90LatencyMs = float64(c.hist.ValueAtQuantile(90)) / 1000
		snap.P99LatencyMs = float64(c.hist.ValueAtQuantile(99)) / 1000
	}

	if elapsed > 0 && total > 0 {
		snap.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	if len(c.statusCodes) > 0 {
		snap.StatusCodes = make(map[int]int64, len(c.statusCodes))
		for code, count := range c.statusCodes {
			snap.StatusCodes[code] = count
		}
	}
	if len(c.errors) > 0 {
		snap.Errors = make(map[string]int64, len(c.errors))
		for desc, count := range c.errors {
			snap.Errors[desc] = count
		}
	}

	return snap
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

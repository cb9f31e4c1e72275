// Package stats reduces completed request batches into benchmark reports.
// The reduction is a pure function over an immutable snapshot of outcomes:
// nothing here runs during dispatch.
package stats

import (
	"errors"
	"math"
	"sort"
	"time"

	"barrage/internal/runner"
)

// ErrEmptyBatch is returned when a batch holds no outcomes. The percentile
// and rate formulas are undefined for n=0, so empty input is rejected
// outright instead of letting NaN leak into a report.
var ErrEmptyBatch = errors.New("cannot analyze an empty batch")

// RunInfo echoes the originating configuration into the report.
type RunInfo struct {
	TargetURL   string
	Method      string
	Concurrency int
	Requested   int
}

// LatencySummary is the latency distribution of a batch, in milliseconds.
// Percentiles are nearest-rank (inclusive, rounding up) over the sorted
// sample, without interpolation.
type LatencySummary struct {
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	StdDevMs float64 `json:"stddev_ms"`
}

// Report is the derived, read-only summary of one benchmark batch.
type Report struct {
	TargetURL      string         `json:"target"`
	Method         string         `json:"method"`
	Concurrency    int            `json:"concurrency"`
	Requested      int            `json:"requested"`
	Total          int            `json:"total"`
	Successes      int            `json:"successes"`
	Failures       int            `json:"failures"`
	ErrorRate      float64        `json:"error_rate"` // percentage of total
	RequestsPerSec float64        `json:"requests_per_sec"`
	Duration       time.Duration  `json:"-"`
	DurationMs     float64        `json:"duration_ms"`
	Latency        LatencySummary `json:"latency"`
	StatusCodes    map[int]int    `json:"status_codes"`
	Errors         map[string]int `json:"errors,omitempty"`
	BytesReceived  int64          `json:"bytes_received"`
}

// Analyze reduces a batch and its wall-clock duration into a Report.
// Deterministic given its inputs; outcome order does not matter.
func Analyze(batch runner.Batch, info RunInfo) (Report, error) {
	n := len(batch.Outcomes)
	if n == 0 {
		return Report{}, ErrEmptyBatch
	}

	latencies := make([]time.Duration, 0, n)
	statusCodes := make(map[int]int)
	var errTally map[string]int
	var successes int
	var bytesReceived int64
	var sumLatency time.Duration

	for _, outcome := range batch.Outcomes {
		latencies = append(latencies, outcome.Latency)
		sumLatency += outcome.Latency
		statusCodes[outcome.StatusCode]++
		bytesReceived += outcome.Bytes
		if outcome.Success() {
			successes++
		}
		if outcome.Err != "" {
			if errTally == nil {
				errTally = make(map[string]int)
			}
			errTally[outcome.Err]++
		}
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	meanMs := toMs(sumLatency) / float64(n)
	report := Report{
		TargetURL:     info.TargetURL,
		Method:        info.Method,
		Concurrency:   info.Concurrency,
		Requested:     info.Requested,
		Total:         n,
		Successes:     successes,
		Failures:      n - successes,
		ErrorRate:     float64(n-successes) / float64(n) * 100,
		Duration:      batch.Duration,
		DurationMs:    toMs(batch.Duration),
		StatusCodes:   statusCodes,
		Errors:        errTally,
		BytesReceived: bytesReceived,
		Latency: LatencySummary{
			MinMs:    toMs(latencies[0]),
			MaxMs:    toMs(latencies[n-1]),
			MeanMs:   meanMs,
			MedianMs: toMs(Percentile(latencies, 50)),
			P95Ms:    toMs(Percentile(latencies, 95)),
			P99Ms:    toMs(Percentile(latencies, 99)),
			StdDevMs: populationStdDev(latencies, meanMs),
		},
	}

	// Elapsed is wall-clock for the whole batch, not the sum of latencies:
	// concurrent requests overlap.
	if batch.Duration > 0 {
		report.RequestsPerSec = float64(n) / batch.Duration.Seconds()
	}

	return report, nil
}

// Percentile returns the nearest-rank percentile of a latency sample sorted
// ascending: sorted[ceil(p/100*n)-1], clamped to the first element. For 100
// sorted values, p95 is the 95th element and p99 the 99th.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// populationStdDev divides the sum of squared deviations by n, not n-1.
func populationStdDev(latencies []time.Duration, meanMs float64) float64 {
	if len(latencies) == 0 {
		return 0
	}
	var sumSquares float64
	for _, latency := range latencies {
		deviation := toMs(latency) - meanMs
		sumSquares += deviation * deviation
	}
	return math.Sqrt(sumSquares / float64(len(latencies)))
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

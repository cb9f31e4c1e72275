package stats_test

import (
	"math"
	"testing"

	"barrage/internal/stats"
)

func reportWith(mean, p95, p99, rps float64) stats.Report {
	return stats.Report{
		RequestsPerSec: rps,
		Latency: stats.LatencySummary{
			MeanMs: mean,
			P95Ms:  p95,
			P99Ms:  p99,
		},
	}
}

func TestCompareDeltaPercentages(t *testing.T) {
	a := reportWith(100, 200, 400, 50)
	b := reportWith(150, 150, 400, 100)

	comparison := stats.Compare(a, b)

	want := map[string]float64{
		"mean_latency_ms":  50.0,
		"p95_latency_ms":   -25.0,
		"p99_latency_ms":   0.0,
		"requests_per_sec": 100.0,
	}
	if len(comparison.Diffs) != len(want) {
		t.Fatalf("expected %d diff rows, got %d", len(want), len(comparison.Diffs))
	}
	for _, row := range comparison.Diffs {
		expected, ok := want[row.Metric]
		if !ok {
			t.Errorf("unexpected diff metric %q", row.Metric)
			continue
		}
		if math.Abs(row.DeltaPct-expected) > 1e-9 {
			t.Errorf("%s: expected delta %+.1f%%, got %+.1f%%", row.Metric, expected, row.DeltaPct)
		}
	}
}

func TestCompareZeroBaseline(t *testing.T) {
	a := reportWith(0, 0, 0, 0)
	b := reportWith(150, 150, 400, 100)

	comparison := stats.Compare(a, b)
	for _, row := range comparison.Diffs {
		if row.DeltaPct != 0 {
			t.Errorf("%s: a zero baseline yields delta 0, got %+.1f%%", row.Metric, row.DeltaPct)
		}
	}
}

func TestComparePreservesReports(t *testing.T) {
	a := reportWith(100, 200, 400, 50)
	a.TargetURL = "http://a.example"
	b := reportWith(150, 150, 400, 100)
	b.TargetURL = "http://b.example"

	comparison := stats.Compare(a, b)
	if comparison.A.TargetURL != "http://a.example" || comparison.B.TargetURL != "http://b.example" {
		t.Errorf("comparison must carry both reports unchanged")
	}
}

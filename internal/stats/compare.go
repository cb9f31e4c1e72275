package stats

// DiffRow captures the relative change of one metric between two reports.
// DeltaPct is (B - A) / A * 100; positive means B is higher.
type DiffRow struct {
	Metric   string  `json:"metric"`
	A        float64 `json:"a"`
	B        float64 `json:"b"`
	DeltaPct float64 `json:"delta_pct"`
}

// Comparison pairs two independent reports with a derived diff view.
// Error rates appear in the individual reports but are not diffed: a ratio
// of a ratio is not a meaningful number.
type Comparison struct {
	A     Report    `json:"a"`
	B     Report    `json:"b"`
	Diffs []DiffRow `json:"diff"`
}

// Compare derives the diff rows for mean latency, p95, p99, and throughput.
func Compare(a, b Report) Comparison {
	return Comparison{
		A: a,
		B: b,
		Diffs: []DiffRow{
			diffRow("mean_latency_ms", a.Latency.MeanMs, b.Latency.MeanMs),
			diffRow("p95_latency_ms", a.Latency.P95Ms, b.Latency.P95Ms),
			diffRow("p99_latency_ms", a.Latency.P99Ms, b.Latency.P99Ms),
			diffRow("requests_per_sec", a.RequestsPerSec, b.RequestsPerSec),
		},
	}
}

func diffRow(metric string, a, b float64) DiffRow {
	row := DiffRow{Metric: metric, A: a, B: b}
	if a != 0 {
		row.DeltaPct = (b - a) / a * 100
	}
	return row
}

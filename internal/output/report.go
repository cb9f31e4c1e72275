package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"barrage/internal/stats"
	"barrage/internal/threshold"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, report stats.Report) {
	fmt.Fprintln(w, "\n--- Benchmark Results ---")
	fmt.Fprintf(w, "Target:            %s %s\n", report.Method, report.TargetURL)
	fmt.Fprintf(w, "Concurrency:       %d\n", report.Concurrency)
	fmt.Fprintf(w, "Total Requests:    %d\n", report.Total)
	fmt.Fprintf(w, "Successful:        %d\n", report.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", report.Failures)
	fmt.Fprintf(w, "Error Rate:        %.1f%%\n", report.ErrorRate)
	fmt.Fprintf(w, "Duration:          %s\n", report.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", report.RequestsPerSec)
	fmt.Fprintf(w, "Bytes Received:    %d\n", report.BytesReceived)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %.2fms\n", report.Latency.MinMs)
	fmt.Fprintf(w, "  Max:             %.2fms\n", report.Latency.MaxMs)
	fmt.Fprintf(w, "  Mean:            %.2fms\n", report.Latency.MeanMs)
	fmt.Fprintf(w, "  Median:          %.2fms\n", report.Latency.MedianMs)
	fmt.Fprintf(w, "  P95:             %.2fms\n", report.Latency.P95Ms)
	fmt.Fprintf(w, "  P99:             %.2fms\n", report.Latency.P99Ms)
	fmt.Fprintf(w, "  StdDev:          %.2fms\n", report.Latency.StdDevMs)

	if len(report.StatusCodes) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		writeStatusCodes(w, report.StatusCodes, "  ")
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		descriptions := make([]string, 0, len(report.Errors))
		for desc := range report.Errors {
			descriptions = append(descriptions, desc)
		}
		sort.Slice(descriptions, func(i, j int) bool {
			if report.Errors[descriptions[i]] == report.Errors[descriptions[j]] {
				return descriptions[i] < descriptions[j]
			}
			return report.Errors[descriptions[i]] > report.Errors[descriptions[j]]
		})
		for _, desc := range descriptions {
			fmt.Fprintf(w, "  %s: %d\n", desc, report.Errors[desc])
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report stats.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintComparison outputs both reports of an A/B run and the diff table.
func PrintComparison(w io.Writer, comparison stats.Comparison) {
	fmt.Fprintln(w, "\n=== URL A ===")
	PrintReport(w, comparison.A)
	fmt.Fprintln(w, "\n=== URL B ===")
	PrintReport(w, comparison.B)

	fmt.Fprintln(w, "\n--- Comparison (B vs A) ---")
	for _, row := range comparison.Diffs {
		fmt.Fprintf(w, "%-20s A=%-12.2f B=%-12.2f %+.1f%%\n", row.Metric, row.A, row.B, row.DeltaPct)
	}
	fmt.Fprintf(w, "%-20s A=%-11.1f%% B=%-11.1f%% (not diffed)\n",
		"error_rate", comparison.A.ErrorRate, comparison.B.ErrorRate)
}

// PrintJSONComparison outputs a JSON-formatted comparison.
func PrintJSONComparison(w io.Writer, comparison stats.Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(comparison)
}

// PrintThresholdResults outputs threshold evaluation results.
func PrintThresholdResults(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "\nThresholds:")
	for _, result := range results {
		fmt.Fprintf(w, "  %s\n", result.Message)
	}
}

func writeStatusCodes(w io.Writer, codes map[int]int, indent string) {
	sorted := make([]int, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Ints(sorted)
	for _, code := range sorted {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "0 (no response)"
		}
		fmt.Fprintf(w, "%s%s: %d\n", indent, label, codes[code])
	}
}

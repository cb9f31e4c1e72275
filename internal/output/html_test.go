package output_test

import (
	"bytes"
	"strings"
	"testing"

	"barrage/internal/output"
	"barrage/internal/stats"
	"barrage/internal/threshold"
)

func TestGenerateHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	err := output.GenerateHTMLReport(&buf, sampleReport(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"GET http://localhost:8080/api",
		"120.00", // p95
		"0 (no response)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html report missing %q", want)
		}
	}
	if strings.Contains(got, "Comparison") {
		t.Error("comparison section must be omitted for a single run")
	}
	if strings.Contains(got, "Thresholds") {
		t.Error("threshold section must be omitted when no thresholds were set")
	}
}

func TestGenerateHTMLReportWithComparisonAndThresholds(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.Latency.MeanMs = 63.0
	comparison := stats.Compare(a, b)

	parsed, err := threshold.Parse("latency:p95 < 500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := threshold.Evaluate([]threshold.Threshold{parsed}, a)

	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, a, &comparison, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"Comparison (B vs A)",
		"mean_latency_ms",
		"+50.0%",
		"latency:p95 &lt; 500",
		"PASS",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}

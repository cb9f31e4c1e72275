// Package threshold evaluates pass/fail assertions against a final report.
// A failing threshold turns the process exit code non-zero without affecting
// the run itself.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"barrage/internal/stats"
)

// Threshold represents one assertion over a report metric.
type Threshold struct {
	Metric    string  // "latency", "failed", or "requests"
	Aggregate string  // e.g. "p95", "mean", "rate", "count"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // comparison value
	Raw       string  // original threshold string for display
}

// Result is the outcome of evaluating one threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string.
// Supported formats:
//   - "latency:p95 < 500"     (latency percentile in ms)
//   - "latency:mean < 200"    (mean latency in ms)
//   - "latency:max < 1000"    (max latency in ms)
//   - "failed:rate < 0.01"    (failure rate as decimal)
//   - "failed:count < 10"     (failure count)
//   - "requests:rate > 100"   (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'latency:p95 < 500')", s)
	}

	metric, aggregate, operator, valueStr := matches[1], matches[2], matches[3], matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if metric != "latency" && metric != "failed" && metric != "requests" {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: latency, failed, requests)", metric)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	t := Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}
	// Probe the aggregate against a zero report so bad names fail at parse
	// time, before the run starts.
	if _, err := extractMetricValue(t, stats.Report{}); err != nil {
		return Threshold{}, err
	}
	return t, nil
}

// ParseMultiple parses a list of threshold strings, collecting every error.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var issues []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			issues = append(issues, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(issues, "; "))
	}
	return result, nil
}

// Evaluate checks all thresholds against a final report.
func Evaluate(thresholds []Threshold, report stats.Report) []Result {
	if len(thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(thresholds))
	for _, t := range thresholds {
		results = append(results, evaluateOne(t, report))
	}
	return results
}

func evaluateOne(t Threshold, report stats.Report) Result {
	actual, err := extractMetricValue(t, report)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "PASS"
	if !pass {
		status = "FAIL"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

func extractMetricValue(t Threshold, report stats.Report) (float64, error) {
	switch t.Metric {
	case "latency":
		return extractLatencyMetric(t.Aggregate, report)
	case "failed":
		return extractFailureMetric(t.Aggregate, report)
	case "requests":
		return extractRequestMetric(t.Aggregate, report)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, report stats.Report) (float64, error) {
	switch aggregate {
	case "p50", "median":
		return report.Latency.MedianMs, nil
	case "p95":
		return report.Latency.P95Ms, nil
	case "p99":
		return report.Latency.P99Ms, nil
	case "mean", "avg":
		return report.Latency.MeanMs, nil
	case "min":
		return report.Latency.MinMs, nil
	case "max":
		return report.Latency.MaxMs, nil
	case "stddev":
		return report.Latency.StdDevMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for latency (use p50, p95, p99, mean, min, max, or stddev)", aggregate)
	}
}

func extractFailureMetric(aggregate string, report stats.Report) (float64, error) {
	switch aggregate {
	case "count":
		return float64(report.Failures), nil
	case "rate":
		if report.Total == 0 {
			return 0, nil
		}
		return float64(report.Failures) / float64(report.Total), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for failed (use 'count' or 'rate')", aggregate)
	}
}

func extractRequestMetric(aggregate string, report stats.Report) (float64, error) {
	switch aggregate {
	case "count":
		return float64(report.Total), nil
	case "rate":
		return report.RequestsPerSec, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for requests (use 'count' or 'rate')", aggregate)
	}
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Floating point comparison with a small epsilon on the inclusive ops.
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}

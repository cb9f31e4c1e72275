package output

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"barrage/internal/stats"
	"barrage/internal/threshold"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Report      stats.Report
	Comparison  *stats.Comparison
	Thresholds  []threshold.Result
	StatusRows  []statusRow
}

type statusRow struct {
	Code  string
	Count int
}

// GenerateHTMLReport writes a standalone HTML report. comparison may be nil
// for flat and ramp runs.
func GenerateHTMLReport(w io.Writer, report stats.Report, comparison *stats.Comparison, thresholds []threshold.Result) error {
	data := HTMLReportData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Report:      report,
		Comparison:  comparison,
		Thresholds:  thresholds,
		StatusRows:  statusRows(report.StatusCodes),
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"formatPct": func(f float64) template.HTML {
			// html/template escapes "+" to "&#43;" in text nodes; the value is
			// only digits, sign, dot, and percent, so emit it verbatim.
			return template.HTML(fmt.Sprintf("%+.1f%%", f))
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func statusRows(codes map[int]int) []statusRow {
	sorted := make([]int, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Ints(sorted)
	rows := make([]statusRow, 0, len(sorted))
	for _, code := range sorted {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "0 (no response)"
		}
		rows = append(rows, statusRow{Code: label, Count: codes[code]})
	}
	return rows
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>barrage report - {{.Report.TargetURL}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; margin-top: 0.5rem; }
th, td { border: 1px solid #ccc; padding: 0.35rem 0.75rem; text-align: left; }
th { background: #f4f4f4; }
.pass { color: #2e7d32; }
.fail { color: #c62828; }
.muted { color: #777; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Benchmark Report</h1>
<p class="muted">Generated {{.GeneratedAt}}</p>

<h2>Summary</h2>
<table>
<tr><th>Target</th><td>{{.Report.Method}} {{.Report.TargetURL}}</td></tr>
<tr><th>Concurrency</th><td>{{.Report.Concurrency}}</td></tr>
<tr><th>Total Requests</th><td>{{.Report.Total}}</td></tr>
<tr><th>Successful</th><td>{{.Report.Successes}}</td></tr>
<tr><th>Failed</th><td>{{.Report.Failures}}</td></tr>
<tr><th>Error Rate</th><td>{{formatFloat .Report.ErrorRate}}%</td></tr>
<tr><th>Duration</th><td>{{formatFloat .Report.DurationMs}} ms</td></tr>
<tr><th>Requests/sec</th><td>{{formatFloat .Report.RequestsPerSec}}</td></tr>
<tr><th>Bytes Received</th><td>{{.Report.BytesReceived}}</td></tr>
</table>

<h2>Latency (ms)</h2>
<table>
<tr><th>Min</th><th>Max</th><th>Mean</th><th>Median</th><th>P95</th><th>P99</th><th>StdDev</th></tr>
<tr>
<td>{{formatFloat .Report.Latency.MinMs}}</td>
<td>{{formatFloat .Report.Latency.MaxMs}}</td>
<td>{{formatFloat .Report.Latency.MeanMs}}</td>
<td>{{formatFloat .Report.Latency.MedianMs}}</td>
<td>{{formatFloat .Report.Latency.P95Ms}}</td>
<td>{{formatFloat .Report.Latency.P99Ms}}</td>
<td>{{formatFloat .Report.Latency.StdDevMs}}</td>
</tr>
</table>

{{if .StatusRows}}
<h2>Status Codes</h2>
<table>
<tr><th>Status</th><th>Count</th></tr>
{{range .StatusRows}}<tr><td>{{.Code}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Comparison}}
<h2>Comparison (B vs A)</h2>
<table>
<tr><th>Metric</th><th>A</th><th>B</th><th>Change</th></tr>
{{range .Comparison.Diffs}}
<tr><td>{{.Metric}}</td><td>{{formatFloat .A}}</td><td>{{formatFloat .B}}</td><td>{{formatPct .DeltaPct}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Thresholds}}
<h2>Thresholds</h2>
<table>
<tr><th>Threshold</th><th>Actual</th><th>Result</th></tr>
{{range .Thresholds}}
<tr><td>{{.Threshold.Raw}}</td><td>{{formatFloat .Actual}}</td>
{{if .Pass}}<td class="pass">PASS</td>{{else}}<td class="fail">FAIL</td>{{end}}</tr>
{{end}}
</table>
{{end}}

</body>
</html>
`

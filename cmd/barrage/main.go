package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barrage/internal/config"
	"barrage/internal/dashboard"
	"barrage/internal/executor"
	"barrage/internal/metrics"
	"barrage/internal/output"
	"barrage/internal/runner"
	"barrage/internal/stats"
	"barrage/internal/threshold"
)

const progressInterval = time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.RunConfig{
			TargetURL:   cfg.TargetURL,
			Method:      cfg.Method,
			Concurrency: cfg.Concurrency,
			Total:       cfg.Total,
			Rate:        cfg.Rate,
			Timeout:     cfg.Timeout,
			Ramp:        cfg.Ramp,
			RampSteps:   cfg.RampSteps,
		})
		if err != nil {
			return err
		}
		dash.Start()
		defer dash.Stop()
	}

	var progress *output.ProgressReporter
	var onProgress runner.ProgressFunc
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, os.Stdout)
		onProgress = progress.OnProgress
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(os.Stdout)
		}()
	}

	collector.Start()

	switch {
	case cfg.CompareURL != "":
		return runCompare(ctx, cfg, collector, onProgress, thresholds)
	default:
		return runSingle(ctx, cfg, collector, onProgress, thresholds)
	}
}

// runSingle executes a flat or ramped benchmark against the target URL.
func runSingle(ctx context.Context, cfg *config.Config, collector *metrics.Collector, onProgress runner.ProgressFunc, thresholds []threshold.Threshold) error {
	exec, err := executor.NewFromConfig(cfg, "")
	if err != nil {
		return err
	}

	opts := runner.Options{
		Concurrency:   cfg.Concurrency,
		TotalRequests: cfg.Total,
		RatePerSecond: cfg.Rate,
		Executor:      recorded(exec, collector),
		OnProgress:    onProgress,
	}

	var batch runner.Batch
	if cfg.Ramp {
		batch = runner.NewRamp(opts, cfg.RampSteps).Run(ctx)
	} else {
		batch = runner.New(opts).Run(ctx)
	}

	report, err := stats.Analyze(batch, stats.RunInfo{
		TargetURL:   cfg.TargetURL,
		Method:      cfg.Method,
		Concurrency: cfg.Concurrency,
		Requested:   cfg.Total,
	})
	if err != nil {
		return err
	}

	results := threshold.Evaluate(thresholds, report)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, report)
		output.PrintThresholdResults(os.Stdout, results)
	}

	if cfg.HTMLOutput != "" {
		if err := writeHTMLReport(cfg.HTMLOutput, report, nil, results); err != nil {
			return err
		}
	}

	return thresholdFailure(results)
}

// runCompare benchmarks two URLs sequentially with identical load profiles
// and prints a paired report with a diff view. The first batch fully drains
// before the second starts so the runs never contend for local resources.
func runCompare(ctx context.Context, cfg *config.Config, collector *metrics.Collector, onProgress runner.ProgressFunc, thresholds []threshold.Threshold) error {
	overallTotal := cfg.Total * 2

	reports := make([]stats.Report, 0, 2)
	for i, target := range []string{cfg.TargetURL, cfg.CompareURL} {
		exec, err := executor.NewFromConfig(cfg, target)
		if err != nil {
			return err
		}

		base := i * cfg.Total
		opts := runner.Options{
			Concurrency:   cfg.Concurrency,
			TotalRequests: cfg.Total,
			RatePerSecond: cfg.Rate,
			Executor:      recorded(exec, collector),
		}
		if onProgress != nil {
			opts.OnProgress = func(completed, _ int) {
				onProgress(base+completed, overallTotal)
			}
		}

		batch := runner.New(opts).Run(ctx)
		report, err := stats.Analyze(batch, stats.RunInfo{
			TargetURL:   target,
			Method:      cfg.Method,
			Concurrency: cfg.Concurrency,
			Requested:   cfg.Total,
		})
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	comparison := stats.Compare(reports[0], reports[1])

	// Thresholds gate on the primary target's report.
	results := threshold.Evaluate(thresholds, comparison.A)

	if cfg.JSONOutput {
		if err := output.PrintJSONComparison(os.Stdout, comparison); err != nil {
			return err
		}
	} else {
		output.PrintComparison(os.Stdout, comparison)
		output.PrintThresholdResults(os.Stdout, results)
	}

	if cfg.HTMLOutput != "" {
		if err := writeHTMLReport(cfg.HTMLOutput, comparison.A, &comparison, results); err != nil {
			return err
		}
	}

	return thresholdFailure(results)
}

// recordingExecutor feeds every resolved outcome into the live collector
// before handing it back to the runner.
type recordingExecutor struct {
	inner     runner.Executor
	collector *metrics.Collector
}

func recorded(inner runner.Executor, collector *metrics.Collector) runner.Executor {
	return &recordingExecutor{inner: inner, collector: collector}
}

func (r *recordingExecutor) Execute(ctx context.Context) executor.Outcome {
	outcome := r.inner.Execute(ctx)
	r.collector.Record(outcome)
	return outcome
}

func writeHTMLReport(path string, report stats.Report, comparison *stats.Comparison, results []threshold.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	defer file.Close()
	return output.GenerateHTMLReport(file, report, comparison, results)
}

func thresholdFailure(results []threshold.Result) error {
	failed := 0
	for _, result := range results {
		if !result.Pass {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d thresholds failed", failed, len(results))
	}
	return nil
}

// Package runner drives bounded-concurrency request execution.
//
// The core model is a closed-loop window: a fixed number of slots are kept
// busy, and a new request is dispatched only when a previous one resolves.
// Throughput is therefore bounded by the slower of network latency and the
// configured concurrency, never by an eager arrival schedule. An optional
// rate cap can be layered on top for open-loop-style pacing.
//
// A flat run executes one window:
//
//	r := runner.New(runner.Options{
//		Concurrency:   8,
//		TotalRequests: 1000,
//		Executor:      exec,
//	})
//	batch := r.Run(ctx)
//
// A ramp run executes several windows sequentially with increasing
// concurrency plateaus and concatenates their outcomes:
//
//	ramp := runner.NewRamp(opts, 5)
//	batch := ramp.Run(ctx)
//
// Outcomes are collected in completion order, which is unrelated to dispatch
// order. Progress is surfaced through an observer callback after every
// completed request so presentation stays out of the dispatch path.
package runner

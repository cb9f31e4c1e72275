package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunFlatBenchmark(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := run([]string{"--target", server.URL, "-n", "20", "-c", "4", "--json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 20 {
		t.Errorf("expected 20 requests, server saw %d", got)
	}
}

func TestRunRampBenchmark(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := run([]string{"--target", server.URL, "-n", "20", "-c", "4", "--ramp", "--ramp-steps", "4", "--json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 20 {
		t.Errorf("expected 20 requests across ramp steps, server saw %d", got)
	}
}

func TestRunCompareBenchmark(t *testing.T) {
	var hitsA, hitsB int64
	serverA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hitsA, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer serverA.Close()
	serverB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hitsB, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer serverB.Close()

	err := run([]string{"--target", serverA.URL, "--compare", serverB.URL, "-n", "10", "-c", "2", "--json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, b := atomic.LoadInt64(&hitsA), atomic.LoadInt64(&hitsB); a != 10 || b != 10 {
		t.Errorf("both targets must receive the full load, saw %d and %d", a, b)
	}
}

func TestRunThresholdFailureSetsExitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := run([]string{"--target", server.URL, "-n", "5", "--json", "--threshold", "failed:count == 0"})
	if err == nil {
		t.Fatal("expected threshold failure error")
	}
	if !strings.Contains(err.Error(), "thresholds failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunRequestFailuresDoNotSetExitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Without thresholds, failed requests are report data, not process errors.
	if err := run([]string{"--target", server.URL, "-n", "5", "--json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	for _, args := range [][]string{
		{"--target", "not-a-url"},
		{"--target", "http://localhost:8080", "-n", "0"},
		{"--target", "http://localhost:8080", "--ramp", "--compare", "http://localhost:9090"},
		{"--target", "http://localhost:8080", "--threshold", "bogus"},
	} {
		if err := run(args); err == nil {
			t.Errorf("expected error for args %v", args)
		}
	}
}

func TestRunWritesHTMLReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "report.html")
	err := run([]string{"--target", server.URL, "-n", "5", "--json", "--html", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected html report at %s: %v", path, err)
	}
	if !strings.Contains(string(contents), "<!DOCTYPE html>") {
		t.Errorf("html report does not look like html")
	}
}

func TestRunHelp(t *testing.T) {
	if err := run([]string{"--help"}); err != nil {
		t.Fatalf("help must not be an error: %v", err)
	}
	if err := run(nil); err != nil {
		t.Fatalf("no arguments shows help, not an error: %v", err)
	}
}

package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		TargetURL:   "http://localhost:8080/api",
		Method:      "GET",
		Concurrency: 10,
		Total:       100,
		Timeout:     30 * time.Second,
		RampSteps:   DefaultRampSteps,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing target",
			mutate:  func(c *Config) { c.TargetURL = "" },
			wantMsg: "target URL is required",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.TargetURL = "ftp://host/file" },
			wantMsg: "http or https",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.TargetURL = "http://" },
			wantMsg: "missing a host",
		},
		{
			name:    "bad compare URL",
			mutate:  func(c *Config) { c.CompareURL = "not a url" },
			wantMsg: "compare URL",
		},
		{
			name:    "zero total",
			mutate:  func(c *Config) { c.Total = 0 },
			wantMsg: "total requests must be at least 1",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantMsg: "concurrency must be at least 1",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Rate = -1 },
			wantMsg: "rate cannot be negative",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantMsg: "timeout cannot be negative",
		},
		{
			name: "ramp with zero steps",
			mutate: func(c *Config) {
				c.Ramp = true
				c.RampSteps = 0
			},
			wantMsg: "ramp steps must be at least 1",
		},
		{
			name: "ramp combined with compare",
			mutate: func(c *Config) {
				c.Ramp = true
				c.CompareURL = "http://localhost:9090"
			},
			wantMsg: "cannot be combined",
		},
		{
			name: "body and body file together",
			mutate: func(c *Config) {
				c.Body = "{}"
				c.BodyFile = "payload.json"
			},
			wantMsg: "cannot both be provided",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := Config{TargetURL: "", Total: 0, Concurrency: 0, Rate: -5}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Issues()) < 4 {
		t.Errorf("expected at least 4 issues, got %d: %v", len(verr.Issues()), verr.Issues())
	}
}

func TestParseHeaderPairs(t *testing.T) {
	headers, err := parseHeaderPairs([]string{
		"Content-Type=application/json",
		"x-api-key=secret=with=equals",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers["Content-Type"] != "application/json" {
		t.Errorf("expected canonical Content-Type header, got %v", headers)
	}
	if headers["X-Api-Key"] != "secret=with=equals" {
		t.Errorf("value must keep everything after the first '=', got %q", headers["X-Api-Key"])
	}
}

func TestParseHeaderPairsRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"no-separator", "=leading", "   =value"} {
		if _, err := parseHeaderPairs([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseHeaderPairsEmpty(t *testing.T) {
	headers, err := parseHeaderPairs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers != nil {
		t.Errorf("expected nil map for no pairs, got %v", headers)
	}
}

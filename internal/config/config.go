package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultRampSteps is the number of concurrency plateaus used when --ramp is
// set without an explicit step count.
const DefaultRampSteps = 5

// Config holds the fully resolved benchmark configuration. It is assembled by
// the Loader and treated as read-only by the engine.
type Config struct {
	TargetURL   string            `mapstructure:"target"`
	CompareURL  string            `mapstructure:"compare"`
	Method      string            `mapstructure:"method"`
	Headers     map[string]string `mapstructure:"headers"`
	Body        string            `mapstructure:"body"`
	BodyFile    string            `mapstructure:"body_file"`
	Concurrency int               `mapstructure:"concurrency"`
	Total       int               `mapstructure:"total"`
	Rate        int               `mapstructure:"rate"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Ramp        bool              `mapstructure:"ramp"`
	RampSteps   int               `mapstructure:"ramp_steps"`
	JSONOutput  bool              `mapstructure:"json_output"`
	HTMLOutput  string            `mapstructure:"html_output"`
	Dashboard   bool              `mapstructure:"dashboard"`
	Thresholds  []string          `mapstructure:"thresholds"`
	ConfigFile  string            `mapstructure:"-"`
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the configuration before any request is dispatched.
// Failures here are the only fatal errors in the tool; everything after this
// point is captured as per-request outcome data.
func (c Config) Validate() error {
	var issues []string

	if err := validateURL(c.TargetURL, "target"); err != nil {
		issues = append(issues, err.Error())
	}
	if c.CompareURL != "" {
		if err := validateURL(c.CompareURL, "compare"); err != nil {
			issues = append(issues, err.Error())
		}
	}
	if c.Total < 1 {
		issues = append(issues, "total requests must be at least 1")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be at least 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate cannot be negative")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout cannot be negative")
	}
	if c.Ramp && c.RampSteps < 1 {
		issues = append(issues, "ramp steps must be at least 1")
	}
	if c.Ramp && c.CompareURL != "" {
		issues = append(issues, "ramp and compare modes cannot be combined")
	}
	if c.Body != "" && strings.TrimSpace(c.BodyFile) != "" {
		issues = append(issues, "body and body file cannot both be provided")
	}
	for key := range c.Headers {
		if strings.TrimSpace(key) == "" {
			issues = append(issues, "header keys cannot be empty")
			break
		}
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateURL(raw, name string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s URL is invalid: %v", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s URL must use http or https scheme", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s URL is missing a host", name)
	}
	return nil
}

// Package executor issues single HTTP requests and resolves them into
// outcome records. All failure modes become data; Execute never returns an
// error.
package executor

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"barrage/internal/config"
	"barrage/internal/httpclient"
)

// TimeoutError is the error description recorded when a request exceeds its
// wall-clock timeout. Kept as a fixed literal so reports are comparable
// across runs and tools.
const TimeoutError = "timeout"

// Outcome is the fully resolved result of one dispatched request attempt.
// It is created exactly once, immediately after the outcome is determined,
// and never mutated afterwards.
type Outcome struct {
	// StatusCode is the HTTP status of the response, or 0 when no response
	// was ever received (transport failure or timeout).
	StatusCode int
	// Latency is wall-clock time from request initiation to resolution.
	// Populated on every outcome, including failures.
	Latency time.Duration
	// Err describes the failure when StatusCode is 0; empty otherwise.
	Err string
	// Bytes is the response body length. 0 on failure.
	Bytes int64
}

// Success reports whether the outcome counts as a success: a response was
// received and its status is in [200, 400).
func (o Outcome) Success() bool {
	return o.Err == "" && o.StatusCode >= 200 && o.StatusCode < 400
}

// Executor performs one HTTP request per Execute call using a shared client
// and request builder. Safe for concurrent use.
type Executor struct {
	client  *http.Client
	builder *httpclient.RequestBuilder
}

// New creates an Executor from an existing client and builder.
func New(client *http.Client, builder *httpclient.RequestBuilder) *Executor {
	return &Executor{client: client, builder: builder}
}

// NewFromConfig builds the client and request builder from cfg. When target
// is non-empty it overrides the configured URL, which compare mode uses to
// aim the same request shape at a second host.
func NewFromConfig(cfg *config.Config, target string) (*Executor, error) {
	var builder *httpclient.RequestBuilder
	var err error
	if target != "" {
		builder, err = httpclient.NewRequestBuilderForURL(cfg, target)
	} else {
		builder, err = httpclient.NewRequestBuilder(cfg)
	}
	if err != nil {
		return nil, err
	}
	return New(httpclient.NewClient(cfg.Timeout), builder), nil
}

// Execute performs one request and classifies the result. The latency clock
// starts before the connection is initiated and stops when the outcome is
// determined: full body drained, transport error, or timeout.
func (e *Executor) Execute(ctx context.Context) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	req, err := e.builder.Build(ctx)
	if err != nil {
		return Outcome{Latency: time.Since(start), Err: errorMessage(err)}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return Outcome{Latency: time.Since(start), Err: errorMessage(err)}
	}

	// Drain the body fully so latency covers the whole response and keep-alive
	// connections can be reused. A read error here (including a timeout firing
	// mid-body) voids the response.
	received, readErr := io.Copy(io.Discard, resp.Body)
	closeErr := resp.Body.Close()
	latency := time.Since(start)

	if readErr != nil {
		return Outcome{Latency: latency, Err: errorMessage(readErr)}
	}
	if closeErr != nil {
		return Outcome{Latency: latency, Err: errorMessage(closeErr)}
	}

	return Outcome{
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Bytes:      received,
	}
}

// errorMessage maps transport errors to outcome descriptions. Timeouts of any
// shape collapse to the fixed TimeoutError literal.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return TimeoutError
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimeoutError
	}
	return err.Error()
}

package httpclient

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"barrage/internal/config"
)

func TestNewRequestBuilderDefaults(t *testing.T) {
	builder, err := NewRequestBuilder(&config.Config{TargetURL: "http://localhost:8080/path"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != http.MethodGet {
		t.Errorf("expected default method GET, got %s", req.Method)
	}
	if req.URL.String() != "http://localhost:8080/path" {
		t.Errorf("unexpected URL %s", req.URL)
	}
	if req.ContentLength != 0 {
		t.Errorf("expected zero content length for empty body, got %d", req.ContentLength)
	}
}

func TestNewRequestBuilderCanonicalizesHeaders(t *testing.T) {
	builder, err := NewRequestBuilder(&config.Config{
		TargetURL: "http://localhost:8080",
		Method:    "post",
		Headers: map[string]string{
			"x-api-key":    "k1",
			"content-type": "application/json",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Errorf("method must be upper-cased, got %s", req.Method)
	}
	if req.Header.Get("X-Api-Key") != "k1" {
		t.Errorf("expected canonicalized X-Api-Key, got %v", req.Header)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type, got %v", req.Header)
	}
}

func TestNewRequestBuilderRejectsBadHeaders(t *testing.T) {
	cases := []map[string]string{
		{"": "value"},
		{"   ": "value"},
		{"Key\r\nInjected": "value"},
		{"Key": "value\r\ninjected"},
	}
	for _, headers := range cases {
		_, err := NewRequestBuilder(&config.Config{
			TargetURL: "http://localhost:8080",
			Headers:   headers,
		})
		if err == nil {
			t.Errorf("expected error for headers %v", headers)
		}
	}
}

func TestContentLengthFromBody(t *testing.T) {
	body := `{"payload":"data"}`
	builder, err := NewRequestBuilder(&config.Config{
		TargetURL: "http://localhost:8080",
		Method:    "POST",
		Body:      body,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.ContentLength != int64(len(body)) {
		t.Errorf("expected content length %d, got %d", len(body), req.ContentLength)
	}

	got, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != body {
		t.Errorf("expected body %q, got %q", body, got)
	}
}

func TestExplicitContentLengthHeaderWins(t *testing.T) {
	builder, err := NewRequestBuilder(&config.Config{
		TargetURL: "http://localhost:8080",
		Method:    "POST",
		Body:      "12345",
		Headers:   map[string]string{"Content-Length": "3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.ContentLength != 3 {
		t.Errorf("explicit Content-Length must win over the body size, got %d", req.ContentLength)
	}
	if req.Header.Get("Content-Length") != "" {
		t.Errorf("Content-Length must be promoted to the request field, not left as a header")
	}
}

func TestInvalidExplicitContentLength(t *testing.T) {
	for _, bad := range []string{"abc", "-1", "1.5"} {
		_, err := NewRequestBuilder(&config.Config{
			TargetURL: "http://localhost:8080",
			Headers:   map[string]string{"Content-Length": bad},
		})
		if err == nil {
			t.Errorf("expected error for Content-Length %q", bad)
		}
	}
}

func TestBuildReturnsIndependentBodies(t *testing.T) {
	builder, err := NewRequestBuilder(&config.Config{
		TargetURL: "http://localhost:8080",
		Method:    "POST",
		Body:      "shared-payload",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Draining one request's body must not affect the other.
	got1, _ := io.ReadAll(first.Body)
	got2, _ := io.ReadAll(second.Body)
	if string(got1) != "shared-payload" || string(got2) != "shared-payload" {
		t.Errorf("each build must get a fresh reader: %q, %q", got1, got2)
	}
}

func TestNewRequestBuilderForURL(t *testing.T) {
	cfg := &config.Config{
		TargetURL: "http://primary.example",
		Method:    "POST",
		Body:      "payload",
	}
	builder, err := NewRequestBuilderForURL(cfg, "http://secondary.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if builder.Target() != "http://secondary.example" {
		t.Errorf("expected override target, got %q", builder.Target())
	}

	if _, err := NewRequestBuilderForURL(cfg, "   "); err == nil {
		t.Error("expected error for blank override target")
	}
}

func TestNewRequestBuilderMissingTarget(t *testing.T) {
	if _, err := NewRequestBuilder(&config.Config{}); err == nil {
		t.Error("expected error for missing target URL")
	}
	if _, err := NewRequestBuilder(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNewClientTimeout(t *testing.T) {
	client := NewClient(10 * time.Second)
	if client.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", client.Timeout)
	}

	// Negative values clamp to no timeout rather than panicking downstream.
	client = NewClient(-time.Second)
	if client.Timeout != 0 {
		t.Errorf("expected clamped timeout 0, got %s", client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
	if transport.MaxIdleConnsPerHost <= 0 {
		t.Errorf("expected per-host idle connection pooling, got %d", transport.MaxIdleConnsPerHost)
	}
}

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barrage/internal/config"
)

// RequestBuilder constructs identical HTTP requests for every dispatch of a
// benchmark batch. Build is safe for concurrent use.
type RequestBuilder struct {
	method        string
	target        string
	headers       http.Header
	body          BodySource
	contentLength int64
	hasLength     bool
}

// NewRequestBuilder validates the request portion of cfg and returns a
// builder for it.
func NewRequestBuilder(cfg *config.Config) (*RequestBuilder, error) {
	return newRequestBuilder(cfg, "")
}

// NewRequestBuilderForURL is NewRequestBuilder with the target URL overridden.
// Compare mode uses it to aim the same request shape at a second URL.
func NewRequestBuilderForURL(cfg *config.Config, target string) (*RequestBuilder, error) {
	if strings.TrimSpace(target) == "" {
		return nil, errors.New("target URL is required")
	}
	return newRequestBuilder(cfg, target)
}

func newRequestBuilder(cfg *config.Config, targetOverride string) (*RequestBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	target := strings.TrimSpace(cfg.TargetURL)
	if targetOverride != "" {
		target = strings.TrimSpace(targetOverride)
	}
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	method := strings.TrimSpace(cfg.Method)
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	bodySource, err := NewBodySource(cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	for key, value := range cfg.Headers {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		if strings.ContainsAny(trimmedKey, "\r\n") {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		canonicalKey := http.CanonicalHeaderKey(trimmedKey)
		if canonicalKey == "" {
			return nil, fmt.Errorf("invalid header key %q", key)
		}

		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("invalid header value for %s", canonicalKey)
		}

		headers.Set(canonicalKey, value)
	}

	builder := &RequestBuilder{
		method:  method,
		target:  target,
		headers: headers,
		body:    bodySource,
	}

	// Content length comes from the body source unless the caller pinned it
	// with an explicit header.
	if explicit := headers.Get("Content-Length"); explicit != "" {
		length, err := strconv.ParseInt(explicit, 10, 64)
		if err != nil || length < 0 {
			return nil, fmt.Errorf("invalid Content-Length header %q", explicit)
		}
		builder.contentLength = length
		builder.hasLength = true
		headers.Del("Content-Length")
	} else if length, ok := bodySource.ContentLength(); ok {
		builder.contentLength = length
		builder.hasLength = true
	}

	return builder, nil
}

// Build assembles one request bound to ctx.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := b.body.NewReader()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, b.method, b.target, reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	if b.headers != nil {
		req.Header = make(http.Header, len(b.headers))
		for key, values := range b.headers {
			for _, val := range values {
				req.Header.Add(key, val)
			}
		}
	}

	if b.hasLength {
		req.ContentLength = b.contentLength
	}

	req.GetBody = func() (io.ReadCloser, error) {
		return b.body.NewReader()
	}

	return req, nil
}

// Target returns the URL this builder aims at.
func (b *RequestBuilder) Target() string {
	if b == nil {
		return ""
	}
	return b.target
}

// NewClient returns an HTTP client tuned for load generation. The timeout is
// wall-clock for the entire exchange: a response that keeps trickling bytes
// past the deadline is still aborted.
func NewClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

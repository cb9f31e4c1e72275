// Package httpclient provides HTTP client utilities for the barrage
// benchmarking tool.
//
// The package handles request construction and the tuned client used by the
// request executor:
//   - Body loading from inline content or files, with content length derived
//     from the source unless the caller supplies an explicit header
//   - Header validation and canonicalization
//   - A client factory whose timeout is wall-clock for the whole exchange,
//     covering connect, write, and the full body read
//
// Use [NewRequestBuilder] to create a request builder from configuration:
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// The [NewClient] function creates an HTTP client optimized for load
// generation with connection reuse across requests:
//
//	client := httpclient.NewClient(30 * time.Second)
//	resp, err := client.Do(req)
package httpclient

// Package httpclient provides the HTTP client factory used for outbound
// calls to the ingestion API.
//
// Clients created by New have:
//   - Request logging with sanitized URLs (sensitive query params redacted)
//   - User-Agent header injection
//   - Correlation ID propagation from the request context
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - A total request timeout
//
// Clients never retry. Each call performs exactly one round trip and reports
// its outcome to the caller.
//
// # Usage
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Do(req)
//
// # Observability
//
// All requests emit structured logs via log/slog:
//   - Debug level: successful requests (2xx/3xx status)
//   - Warn level: failed requests (4xx/5xx status, errors)
//   - Fields: method, url (sanitized), status, duration_ms, error
//
// Authorization headers are never logged.
package httpclient

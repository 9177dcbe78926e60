// Package server exposes sheet scanning over HTTP.
//
// Routes:
//   - GET /health: liveness probe
//   - POST /process-omr: fetch a sheet image by URL, scan it, return answers
//
// Every request gets a uuid request id (X-Request-Id response header) that
// is attached to its log lines. Panics in handlers are recovered and
// reported as a JSON 500, and CORS is applied for the configured origins.
//
// The Handler owns no global state; the scanner, the image fetcher and the
// default question count are injected by the caller.
package server

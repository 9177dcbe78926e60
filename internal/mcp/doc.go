// Package mcp implements the MCP (Model Context Protocol) server for sheet grading.
//
// The server speaks JSON-RPC 2.0 over stdio, one message per line:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - omr_scan: grade a sheet image file, optionally with an annotated overlay
//   - image_load: describe a sheet image (size, format, answer region start)
//   - omr_profile: show the active calibration
//
// # Image Caching
//
// Decoded sheets are cached by path for the lifetime of the process, so an
// assistant can inspect a sheet and then scan it without decoding twice. A
// file replaced on disk is decoded again.
//
// # Error Handling
//
// Tool errors are JSON-RPC error responses:
//   - -32602: missing or malformed arguments, unknown tool
//   - -32000: the tool ran and failed (unreadable file, undecodable image)
//   - data: the Go error string
//
// Log output goes to the zap logger, never to stdout.
package mcp

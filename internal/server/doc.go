// Package server implements the MCP (Model Context Protocol) server for the
// line-sensor detection tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods: initialize, tools/list, tools/call, ping.
//
// # Available Tools
//
//   - line_find: Detect border-validated lines in a reading
//   - line_split: List every run of active cells
//   - line_threshold: Keep only runs longer than n
//   - line_blur: Apply a noise filter
//   - line_sample_image: Sample a bar from an image and detect lines
//   - line_render: Render a bar and its lines as PNG
//   - line_profiles: List configured detection profiles
//
// Readings are strings of detection.Width symbols, cell 0 first. The active
// argument lists the symbols that count as a set cell (default "1").
// Thresholds and blur not given in a call come from the selected profile.
//
// # Error Handling
//
// Tool execution errors, including malformed readings, are returned as
// JSON-RPC errors with code -32000 and the Go error string in data.
package server

// Package mcp provides an MCP (Model Context Protocol) server adapter for sanctrack.
// It lets AI assistants preview sanctions list changes and read the stored baseline.
package mcp

import "errors"

// ErrMissingTrackerService is returned when the tracker service is not provided.
var ErrMissingTrackerService = errors.New("mcp: tracker service is required")

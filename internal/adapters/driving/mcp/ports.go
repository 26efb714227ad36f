package mcp

import (
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tracker normalises and compares documents.
	Tracker driving.TrackerService

	// Baseline exposes the stored snapshot.
	Baseline driving.BaselineService

	// History lists past runs.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tracker == nil {
		return ErrMissingTrackerService
	}
	// Baseline and History are optional.
	return nil
}

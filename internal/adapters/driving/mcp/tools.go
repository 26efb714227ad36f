package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
)

// PreviewInput is the input schema for the preview_changes tool.
type PreviewInput struct {
	Document string `json:"document" jsonschema:"UN consolidated sanctions list XML to compare against the stored baseline"`
}

// PreviewOutput is the output schema for the preview_changes tool.
type PreviewOutput struct {
	Mode            string             `json:"mode"`
	EntriesParsed   int                `json:"entries_parsed"`
	PreviousEntries int                `json:"previous_entries"`
	Digest          string             `json:"digest"`
	BaselineVersion string             `json:"baseline_version,omitempty"`
	Report          *render.ReportView `json:"report,omitempty"`
}

// CompareInput is the input schema for the compare_documents tool.
type CompareInput struct {
	OldDocument string `json:"old_document" jsonschema:"the earlier sanctions list XML"`
	NewDocument string `json:"new_document" jsonschema:"the later sanctions list XML"`
}

// CompareOutput is the output schema for the compare_documents tool.
type CompareOutput struct {
	Report *render.ReportView `json:"report"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_changes",
		Description: "Compare a sanctions list document with the stored baseline without updating it",
	}, s.handlePreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_documents",
		Description: "Compare two sanctions list documents",
	}, s.handleCompare)
}

// handlePreview runs a dry-run track of the supplied document.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	if strings.TrimSpace(input.Document) == "" {
		return nil, PreviewOutput{}, errors.New("document is required")
	}

	result, err := s.ports.Tracker.Track(ctx, strings.NewReader(input.Document), driving.TrackOptions{
		DryRun: true,
		Source: "mcp",
	})
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	return nil, PreviewOutput{
		Mode:            result.Mode.String(),
		EntriesParsed:   result.EntriesParsed,
		PreviousEntries: result.PreviousEntries,
		Digest:          result.Digest,
		BaselineVersion: result.PreviousVersion.String(),
		Report:          render.NewReportView(result.Report),
	}, nil
}

// handleCompare diffs two supplied documents.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	report, err := s.ports.Tracker.Compare(ctx,
		strings.NewReader(input.OldDocument), strings.NewReader(input.NewDocument))
	if err != nil {
		return nil, CompareOutput{}, err
	}
	if report == nil {
		report = &domain.Report{}
	}
	return nil, CompareOutput{Report: render.NewReportView(report)}, nil
}

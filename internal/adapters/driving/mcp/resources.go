package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for sanctrack resources.
	uriScheme = "sanctrack://"

	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "baseline",
		Name:        "baseline",
		Description: "The stored baseline snapshot",
		MIMEType:    "application/json",
	}, s.handleBaselineResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "baseline/entries/{referenceNumber}",
		Name:        "baseline-entry",
		Description: "One entry of the stored baseline by reference number",
		MIMEType:    "application/json",
	}, s.handleBaselineEntryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent tracking runs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

type baselineInfo struct {
	Location string             `json:"location"`
	Version  string             `json:"version"`
	Count    int                `json:"count"`
	Entries  []render.EntryView `json:"entries"`
}

// handleBaselineResource returns the stored snapshot.
func (s *Server) handleBaselineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stored, err := s.currentBaseline(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}

	return jsonResult(req.Params.URI, baselineInfo{
		Location: s.ports.Baseline.Location(),
		Version:  stored.Version.String(),
		Count:    len(stored.Entries),
		Entries:  render.NewEntryViews(stored.Entries),
	})
}

// handleBaselineEntryResource returns a single baseline entry.
func (s *Server) handleBaselineEntryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ref := extractReferenceNumber(req.Params.URI)
	if ref == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stored, err := s.currentBaseline(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}

	entry, ok := domain.IndexEntries(stored.Entries).Get(ref)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, render.NewEntryView(entry))
}

// handleHistoryResource returns recent runs.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, []render.RunRecordView{})
	}

	records, err := s.ports.History.List(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return jsonResult(req.Params.URI, render.NewRunRecordViews(records))
}

func (s *Server) currentBaseline(ctx context.Context, uri string) (*domain.StoredSnapshot, error) {
	if s.ports.Baseline == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	stored, err := s.ports.Baseline.Current(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}
	return stored, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractReferenceNumber extracts the key from sanctrack://baseline/entries/{referenceNumber}.
func extractReferenceNumber(uri string) string {
	const prefix = uriScheme + "baseline/entries/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

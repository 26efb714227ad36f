package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// Write renders v in the given format. Text output needs a report or run
// view and is handled by Text and TextRun.
func Write(w io.Writer, format domain.ReportFormat, v any) error {
	switch format {
	case domain.ReportFormatJSON:
		return JSON(w, v)
	case domain.ReportFormatYAML:
		return YAML(w, v)
	default:
		return fmt.Errorf("%w: format %q is not structured", domain.ErrInvalidInput, format)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

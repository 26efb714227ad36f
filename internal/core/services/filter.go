package services

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// Change kinds exposed to filter expressions as the "change" variable.
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "removed"
	ChangeModified = "modified"
)

// filterCostLimit bounds the evaluation cost of a single expression.
const filterCostLimit = 10000

// ReportFilter narrows a report with a CEL expression such as
//
//	change == "added" && entry.reference_number.startsWith("QDi.")
//
// The expression sees "entry" (type, reference_number, name, aliases) and
// "change". Modified records are matched against their new version.
type ReportFilter struct {
	expr string
	prg  cel.Program
}

// NewReportFilter compiles expr. An empty expression yields a nil filter,
// which keeps everything.
func NewReportFilter(expr string) (*ReportFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("entry", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("change", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: filter: %v", domain.ErrInvalidInput, issues.Err())
	}

	prg, err := env.Program(ast, cel.CostLimit(filterCostLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", domain.ErrInvalidInput, err)
	}

	return &ReportFilter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *ReportFilter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Apply returns a new report holding only matching records. Counts are
// recomputed from the filtered lists.
func (f *ReportFilter) Apply(r *domain.Report) (*domain.Report, error) {
	if f == nil || r == nil {
		return r, nil
	}

	var diff domain.DiffResult
	for _, e := range r.Added {
		ok, err := f.match(e, ChangeAdded)
		if err != nil {
			return nil, err
		}
		if ok {
			diff.Added = append(diff.Added, e)
		}
	}
	for _, e := range r.Removed {
		ok, err := f.match(e, ChangeRemoved)
		if err != nil {
			return nil, err
		}
		if ok {
			diff.Removed = append(diff.Removed, e)
		}
	}
	for _, m := range r.Modified {
		ok, err := f.match(m.New, ChangeModified)
		if err != nil {
			return nil, err
		}
		if ok {
			diff.Modified = append(diff.Modified, m)
		}
	}

	return AssembleReport(diff), nil
}

func (f *ReportFilter) match(e domain.Entry, change string) (bool, error) {
	aliases := make([]any, len(e.Aliases))
	for i, a := range e.Aliases {
		aliases[i] = a
	}

	out, _, err := f.prg.Eval(map[string]any{
		"entry": map[string]any{
			"type":             string(e.Type),
			"reference_number": e.ReferenceNumber,
			"name":             e.Name,
			"aliases":          aliases,
		},
		"change": change,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter on %s: %w", e.ReferenceNumber, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: filter must return a bool, got %s", domain.ErrInvalidInput, out.Type())
	}
	return matched, nil
}

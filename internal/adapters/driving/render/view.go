// Package render turns reports and run results into JSON, YAML and styled
// text. The CLI, MCP server and TUI share these views so every surface
// shows the same field names.
package render

import (
	"time"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// CountsView mirrors domain.Counts.
type CountsView struct {
	Added    int `json:"added" yaml:"added"`
	Removed  int `json:"removed" yaml:"removed"`
	Modified int `json:"modified" yaml:"modified"`
}

// EntryView is the serialised form of an entry.
type EntryView struct {
	Type            string   `json:"type" yaml:"type"`
	ReferenceNumber string   `json:"reference_number" yaml:"reference_number"`
	Name            string   `json:"name" yaml:"name"`
	Aliases         []string `json:"aliases" yaml:"aliases"`
}

// FieldChangeView is the serialised form of a field change.
type FieldChangeView struct {
	Field     string   `json:"field" yaml:"field"`
	Old       string   `json:"old,omitempty" yaml:"old,omitempty"`
	New       string   `json:"new,omitempty" yaml:"new,omitempty"`
	Added     []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed   []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	Reordered bool     `json:"reordered,omitempty" yaml:"reordered,omitempty"`
}

// ModificationView is the serialised form of a modification.
type ModificationView struct {
	ReferenceNumber string            `json:"reference_number" yaml:"reference_number"`
	Old             EntryView         `json:"old" yaml:"old"`
	New             EntryView         `json:"new" yaml:"new"`
	Changes         []FieldChangeView `json:"changes" yaml:"changes"`
}

// ReportView is the serialised form of a report.
type ReportView struct {
	Counts   CountsView         `json:"counts" yaml:"counts"`
	Added    []EntryView        `json:"added" yaml:"added"`
	Removed  []EntryView        `json:"removed" yaml:"removed"`
	Modified []ModificationView `json:"modified" yaml:"modified"`
}

// RunView is the serialised form of a run result.
type RunView struct {
	RunID           string      `json:"run_id" yaml:"run_id"`
	Mode            string      `json:"mode" yaml:"mode"`
	EntriesParsed   int         `json:"entries_parsed" yaml:"entries_parsed"`
	PreviousEntries int         `json:"previous_entries" yaml:"previous_entries"`
	Committed       bool        `json:"committed" yaml:"committed"`
	DryRun          bool        `json:"dry_run" yaml:"dry_run"`
	Digest          string      `json:"digest" yaml:"digest"`
	PreviousVersion string      `json:"previous_version,omitempty" yaml:"previous_version,omitempty"`
	Version         string      `json:"version,omitempty" yaml:"version,omitempty"`
	StartedAt       time.Time   `json:"started_at" yaml:"started_at"`
	DurationMS      int64       `json:"duration_ms" yaml:"duration_ms"`
	Error           string      `json:"error,omitempty" yaml:"error,omitempty"`
	Report          *ReportView `json:"report" yaml:"report"`
}

// NewEntryView converts an entry. Aliases are never nil.
func NewEntryView(e domain.Entry) EntryView {
	aliases := e.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return EntryView{
		Type:            string(e.Type),
		ReferenceNumber: e.ReferenceNumber,
		Name:            e.Name,
		Aliases:         aliases,
	}
}

// NewEntryViews converts a list of entries.
func NewEntryViews(entries []domain.Entry) []EntryView {
	out := make([]EntryView, len(entries))
	for i, e := range entries {
		out[i] = NewEntryView(e)
	}
	return out
}

// NewReportView converts a report. A nil report yields nil.
func NewReportView(r *domain.Report) *ReportView {
	if r == nil {
		return nil
	}

	view := &ReportView{
		Counts: CountsView{
			Added:    r.Counts.Added,
			Removed:  r.Counts.Removed,
			Modified: r.Counts.Modified,
		},
		Added:    NewEntryViews(r.Added),
		Removed:  NewEntryViews(r.Removed),
		Modified: make([]ModificationView, len(r.Modified)),
	}

	for i, m := range r.Modified {
		changes := make([]FieldChangeView, len(m.Changes))
		for j, c := range m.Changes {
			changes[j] = FieldChangeView(c)
		}
		view.Modified[i] = ModificationView{
			ReferenceNumber: m.ReferenceNumber,
			Old:             NewEntryView(m.Old),
			New:             NewEntryView(m.New),
			Changes:         changes,
		}
	}

	return view
}

// NewRunView converts a run result. runErr is the error the run returned.
func NewRunView(r *domain.RunResult, runErr error) *RunView {
	if r == nil {
		return nil
	}

	view := &RunView{
		RunID:           r.RunID,
		Mode:            r.Mode.String(),
		EntriesParsed:   r.EntriesParsed,
		PreviousEntries: r.PreviousEntries,
		Committed:       r.Committed,
		DryRun:          r.DryRun,
		Digest:          r.Digest,
		PreviousVersion: r.PreviousVersion.String(),
		Version:         r.Version.String(),
		StartedAt:       r.StartedAt,
		DurationMS:      r.Duration().Milliseconds(),
		Report:          NewReportView(r.Report),
	}
	if runErr != nil {
		view.Error = runErr.Error()
	}
	return view
}

// RunRecordView is the serialised form of a history record.
type RunRecordView struct {
	ID            string     `json:"id" yaml:"id"`
	Mode          string     `json:"mode" yaml:"mode"`
	EntriesParsed int        `json:"entries_parsed" yaml:"entries_parsed"`
	Counts        CountsView `json:"counts" yaml:"counts"`
	Committed     bool       `json:"committed" yaml:"committed"`
	DryRun        bool       `json:"dry_run" yaml:"dry_run"`
	Version       string     `json:"version,omitempty" yaml:"version,omitempty"`
	Digest        string     `json:"digest" yaml:"digest"`
	Error         string     `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt    time.Time  `json:"finished_at" yaml:"finished_at"`
}

// NewRunRecordViews converts history records. The result is never nil.
func NewRunRecordViews(records []domain.RunRecord) []RunRecordView {
	out := make([]RunRecordView, len(records))
	for i, r := range records {
		out[i] = RunRecordView{
			ID:            r.ID,
			Mode:          r.Mode.String(),
			EntriesParsed: r.EntriesParsed,
			Counts:        CountsView(r.Counts),
			Committed:     r.Committed,
			DryRun:        r.DryRun,
			Version:       r.Version.String(),
			Digest:        r.Digest,
			Error:         r.Error,
			StartedAt:     r.StartedAt,
			FinishedAt:    r.FinishedAt,
		}
	}
	return out
}

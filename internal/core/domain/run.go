package domain

import "time"

// RunMode identifies whether a run established a baseline or compared against one.
type RunMode string

// Run modes.
const (
	// RunModeBaseline means no previous snapshot existed; nothing was compared.
	RunModeBaseline RunMode = "baseline"

	// RunModeComparison means the document was diffed against the stored snapshot.
	RunModeComparison RunMode = "comparison"
)

// String returns the string representation.
func (m RunMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RunMode) Description() string {
	switch m {
	case RunModeBaseline:
		return "Baseline established"
	case RunModeComparison:
		return "Compared against previous snapshot"
	default:
		return "Unknown"
	}
}

// RunResult is the outcome of one tracking run.
type RunResult struct {
	// RunID uniquely identifies the run.
	RunID string

	// Mode records whether this was a baseline or comparison run.
	Mode RunMode

	// EntriesParsed is the number of entries normalised from the document.
	EntriesParsed int

	// PreviousEntries is the number of entries in the loaded baseline.
	// Zero on baseline runs.
	PreviousEntries int

	// Report holds the comparison. Nil on baseline runs.
	Report *Report

	// Committed is true when the new snapshot replaced the stored baseline.
	Committed bool

	// DryRun is true when the run was asked not to write.
	DryRun bool

	// Digest identifies the content of the normalised snapshot.
	Digest string

	// PreviousVersion is the token the baseline was loaded with.
	PreviousVersion VersionToken

	// Version is the token of the stored baseline after the run.
	Version VersionToken

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// IsBaseline reports whether the run established a new baseline.
func (r *RunResult) IsBaseline() bool {
	return r != nil && r.Mode == RunModeBaseline
}

// Duration returns how long the run took.
func (r *RunResult) Duration() time.Duration {
	if r == nil || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRecord is the persisted history entry for one run.
type RunRecord struct {
	ID            string
	Mode          RunMode
	EntriesParsed int
	Counts        Counts
	Committed     bool
	DryRun        bool
	Version       VersionToken
	Digest        string
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// NewRunRecord captures a run result for the history store.
// runErr is the error the run returned, if any.
func NewRunRecord(r *RunResult, runErr error) RunRecord {
	rec := RunRecord{
		ID:            r.RunID,
		Mode:          r.Mode,
		EntriesParsed: r.EntriesParsed,
		Committed:     r.Committed,
		DryRun:        r.DryRun,
		Version:       r.Version,
		Digest:        r.Digest,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}
	if r.Report != nil {
		rec.Counts = r.Report.Counts
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	return rec
}

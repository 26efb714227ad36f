package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driving"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driving.TrackerService = (*Tracker)(nil)

// Tracker owns the snapshot lifecycle: normalise, load the previous
// baseline, compare, and replace the baseline.
type Tracker struct {
	normaliser driven.DocumentNormaliser
	snapshots  *SnapshotRepository
	recorders  []driven.RunRecorder

	now   func() time.Time
	newID func() string
}

// NewTracker creates a tracker. Recorders are optional and observe every
// run that produced a result.
func NewTracker(
	normaliser driven.DocumentNormaliser,
	snapshots *SnapshotRepository,
	recorders ...driven.RunRecorder,
) *Tracker {
	return &Tracker{
		normaliser: normaliser,
		snapshots:  snapshots,
		recorders:  recorders,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Track runs the full pipeline for one document.
//
// A missing baseline makes this a baseline run: the document is stored and
// no report is produced. Otherwise the report is computed and the document
// unconditionally replaces the baseline, using the version token it was
// loaded with. A rejected write returns the result together with a
// *domain.CommitError; it is never retried.
func (t *Tracker) Track(ctx context.Context, doc io.Reader, opts driving.TrackOptions) (*domain.RunResult, error) {
	result := &domain.RunResult{
		RunID:     t.newID(),
		DryRun:    opts.DryRun,
		StartedAt: t.now(),
	}

	logger.Section("Normalise")
	current, err := t.normaliser.Normalise(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("normalise document: %w", err)
	}
	result.EntriesParsed = len(current)
	if result.Digest, err = SnapshotDigest(current); err != nil {
		return nil, err
	}
	logger.Info("%d entries parsed from %s", len(current), sourceLabel(opts.Source))

	logger.Section("Load baseline")
	previous, err := t.snapshots.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		result.Mode = domain.RunModeBaseline
		logger.Info("No previous snapshot in %s; this run establishes the baseline", t.snapshots.Location())
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	default:
		result.Mode = domain.RunModeComparison
		result.PreviousEntries = len(previous.Entries)
		result.PreviousVersion = previous.Version

		logger.Section("Compare")
		result.Report = AssembleReport(Compare(previous.Entries, current))
		logger.Info("Added %d, removed %d, modified %d",
			result.Report.Counts.Added, result.Report.Counts.Removed, result.Report.Counts.Modified)
	}

	if opts.DryRun {
		logger.Info("Dry run: baseline left unchanged")
		result.Version = result.PreviousVersion
		return t.finish(ctx, result, nil)
	}

	logger.Section("Persist")
	version, err := t.snapshots.Save(ctx, current, result.PreviousVersion)
	if err != nil {
		logger.Warn("Baseline not committed: %v", err)
		result.Version = result.PreviousVersion
		return t.finish(ctx, result, &domain.CommitError{Result: result, Err: err})
	}

	result.Committed = true
	result.Version = version
	return t.finish(ctx, result, nil)
}

// Compare diffs two documents without reading or writing the baseline.
func (t *Tracker) Compare(ctx context.Context, oldDoc, newDoc io.Reader) (*domain.Report, error) {
	older, err := t.normaliser.Normalise(ctx, oldDoc)
	if err != nil {
		return nil, fmt.Errorf("normalise old document: %w", err)
	}
	newer, err := t.normaliser.Normalise(ctx, newDoc)
	if err != nil {
		return nil, fmt.Errorf("normalise new document: %w", err)
	}

	logger.Debug("Comparing %d old entries with %d new entries", len(older), len(newer))
	return AssembleReport(Compare(older, newer)), nil
}

// finish stamps the result and notifies recorders. Recorder failures are
// logged and do not affect the returned error.
func (t *Tracker) finish(ctx context.Context, result *domain.RunResult, runErr error) (*domain.RunResult, error) {
	result.FinishedAt = t.now()

	for _, rec := range t.recorders {
		if rec == nil {
			continue
		}
		if err := rec.RecordRun(ctx, result, runErr); err != nil {
			logger.Warn("Recording run %s failed: %v", result.RunID, err)
		}
	}

	return result, runErr
}

func sourceLabel(source string) string {
	if source == "" {
		return "document"
	}
	return source
}

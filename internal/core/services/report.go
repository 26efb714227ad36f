package services

import "github.com/custodia-labs/sanctrack/internal/core/domain"

// AssembleReport shapes a diff for presentation. Lists are passed through
// unchanged (nil lists become empty) and the counts are taken from them.
func AssembleReport(diff domain.DiffResult) *domain.Report {
	report := &domain.Report{
		Added:    nonNilEntries(diff.Added),
		Removed:  nonNilEntries(diff.Removed),
		Modified: diff.Modified,
	}
	if report.Modified == nil {
		report.Modified = []domain.Modification{}
	}
	report.Counts = domain.Counts{
		Added:    len(report.Added),
		Removed:  len(report.Removed),
		Modified: len(report.Modified),
	}
	return report
}

func nonNilEntries(entries []domain.Entry) []domain.Entry {
	if entries == nil {
		return []domain.Entry{}
	}
	return entries
}

package services

import (
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// Compare classifies the keys of two snapshots into added, removed and
// modified entries. Both snapshots are indexed by reference number with
// last-write-wins on repeated keys, so colliding UnknownReference records
// reduce to the last one in each snapshot.
//
// Added and Modified follow the key order of newer; Removed follows older.
func Compare(older, newer domain.Snapshot) domain.DiffResult {
	oldIdx := domain.IndexEntries(older)
	newIdx := domain.IndexEntries(newer)

	var result domain.DiffResult

	for _, key := range newIdx.Keys() {
		newEntry, _ := newIdx.Get(key)
		oldEntry, existed := oldIdx.Get(key)
		if !existed {
			result.Added = append(result.Added, newEntry)
			continue
		}
		if oldEntry.Equal(newEntry) {
			continue
		}
		result.Modified = append(result.Modified, domain.Modification{
			ReferenceNumber: key,
			Old:             oldEntry,
			New:             newEntry,
			Changes:         FieldChanges(oldEntry, newEntry),
		})
	}

	for _, key := range oldIdx.Keys() {
		if newIdx.Has(key) {
			continue
		}
		oldEntry, _ := oldIdx.Get(key)
		result.Removed = append(result.Removed, oldEntry)
	}

	return result
}

// FieldChanges describes field by field how newer differs from older.
// Returns nil when the entries are equal.
func FieldChanges(older, newer domain.Entry) []domain.FieldChange {
	var changes []domain.FieldChange

	if older.Type != newer.Type {
		changes = append(changes, domain.FieldChange{
			Field: domain.FieldType,
			Old:   string(older.Type),
			New:   string(newer.Type),
		})
	}
	if older.Name != newer.Name {
		changes = append(changes, domain.FieldChange{
			Field: domain.FieldName,
			Old:   older.Name,
			New:   newer.Name,
		})
	}
	if change, ok := aliasChange(older.Aliases, newer.Aliases); ok {
		changes = append(changes, change)
	}

	return changes
}

// aliasChange compares alias lists as multisets and flags pure reorderings.
func aliasChange(older, newer []string) (domain.FieldChange, bool) {
	if stringsEqual(older, newer) {
		return domain.FieldChange{}, false
	}

	remaining := make(map[string]int, len(older))
	for _, a := range older {
		remaining[a]++
	}

	var added []string
	for _, a := range newer {
		if remaining[a] > 0 {
			remaining[a]--
			continue
		}
		added = append(added, a)
	}

	var removed []string
	for _, a := range older {
		if remaining[a] > 0 {
			remaining[a]--
			removed = append(removed, a)
		}
	}

	return domain.FieldChange{
		Field:     domain.FieldAliases,
		Added:     added,
		Removed:   removed,
		Reordered: len(added) == 0 && len(removed) == 0,
	}, true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

func entry(ref, name string, aliases ...string) domain.Entry {
	if aliases == nil {
		aliases = []string{}
	}
	return domain.Entry{
		Type:            domain.EntityIndividual,
		ReferenceNumber: ref,
		Name:            name,
		Aliases:         aliases,
	}
}

func refs(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ReferenceNumber)
	}
	return out
}

func TestCompare_IdenticalSnapshots(t *testing.T) {
	snapshots := map[string]domain.Snapshot{
		"empty":  {},
		"single": {entry("QDi.001", "John DOE", "J. Doe")},
		"many": {
			entry("QDi.001", "John DOE", "J. Doe"),
			entry("QDi.002", "Jane ROE"),
			entry("QDi.003", "Ali BABA", "A", "B", "A"),
		},
		"duplicates": {
			entry(domain.UnknownReference, "First"),
			entry(domain.UnknownReference, "Second"),
		},
	}

	for name, s := range snapshots {
		t.Run(name, func(t *testing.T) {
			diff := Compare(s, s)

			assert.Empty(t, diff.Added)
			assert.Empty(t, diff.Removed)
			assert.Empty(t, diff.Modified)
			assert.True(t, diff.IsEmpty())
		})
	}
}

func TestCompare_DisjointSnapshots(t *testing.T) {
	a := domain.Snapshot{entry("A1", "Alpha"), entry("A2", "Beta")}
	b := domain.Snapshot{entry("B1", "Gamma"), entry("B2", "Delta"), entry("B3", "Eps")}

	diff := Compare(a, b)

	assert.Equal(t, []domain.Entry(b), diff.Added)
	assert.Equal(t, []domain.Entry(a), diff.Removed)
	assert.Empty(t, diff.Modified)
}

func TestCompare_AntiSymmetric(t *testing.T) {
	a := domain.Snapshot{entry("1", "One"), entry("2", "Two"), entry("3", "Three")}
	b := domain.Snapshot{entry("2", "Two"), entry("3", "Three!"), entry("4", "Four")}

	ab := Compare(a, b)
	ba := Compare(b, a)

	assert.Equal(t, ab.Added, ba.Removed)
	assert.Equal(t, ab.Removed, ba.Added)
	require.Len(t, ab.Modified, 1)
	require.Len(t, ba.Modified, 1)
	assert.Equal(t, ab.Modified[0].Old, ba.Modified[0].New)
}

func TestCompare_EmptySides(t *testing.T) {
	s := domain.Snapshot{entry("1", "One"), entry("2", "Two")}

	t.Run("empty old", func(t *testing.T) {
		diff := Compare(nil, s)
		assert.Equal(t, []string{"1", "2"}, refs(diff.Added))
		assert.Empty(t, diff.Removed)
		assert.Empty(t, diff.Modified)
	})

	t.Run("empty new", func(t *testing.T) {
		diff := Compare(s, domain.Snapshot{})
		assert.Empty(t, diff.Added)
		assert.Equal(t, []string{"1", "2"}, refs(diff.Removed))
		assert.Empty(t, diff.Modified)
	})

	t.Run("both empty", func(t *testing.T) {
		assert.True(t, Compare(nil, nil).IsEmpty())
	})
}

func TestCompare_SingleAliasAppended(t *testing.T) {
	older := domain.Snapshot{entry("1", "One"), entry("2", "Two"), entry("3", "Three")}
	newer := domain.Snapshot{entry("1", "One"), entry("2", "Two", "X"), entry("3", "Three")}

	diff := Compare(older, newer)

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	require.Len(t, diff.Modified, 1)

	mod := diff.Modified[0]
	assert.Equal(t, "2", mod.ReferenceNumber)
	assert.Equal(t, []string{}, mod.Old.Aliases)
	assert.Equal(t, []string{"X"}, mod.New.Aliases)
	require.Len(t, mod.Changes, 1)
	assert.Equal(t, domain.FieldAliases, mod.Changes[0].Field)
	assert.Equal(t, []string{"X"}, mod.Changes[0].Added)
	assert.Empty(t, mod.Changes[0].Removed)
}

func TestCompare_OrderFollowsKeyInsertion(t *testing.T) {
	older := domain.Snapshot{entry("c", "C"), entry("x", "X"), entry("a", "A"), entry("y", "Y")}
	newer := domain.Snapshot{entry("z", "Z"), entry("a", "A2"), entry("b", "B"), entry("c", "C2")}

	diff := Compare(older, newer)

	assert.Equal(t, []string{"z", "b"}, refs(diff.Added))
	assert.Equal(t, []string{"x", "y"}, refs(diff.Removed))
	require.Len(t, diff.Modified, 2)
	assert.Equal(t, "a", diff.Modified[0].ReferenceNumber)
	assert.Equal(t, "c", diff.Modified[1].ReferenceNumber)
}

func TestCompare_UnknownReferenceCollision(t *testing.T) {
	older := domain.Snapshot{
		entry(domain.UnknownReference, "First"),
		entry("1", "One"),
		entry(domain.UnknownReference, "Second"),
	}

	t.Run("last write wins", func(t *testing.T) {
		newer := domain.Snapshot{entry("1", "One"), entry(domain.UnknownReference, "Second")}

		diff := Compare(older, newer)

		assert.True(t, diff.IsEmpty(), "older collapses to its last sentinel entry")
	})

	t.Run("collapsed entry is compared", func(t *testing.T) {
		newer := domain.Snapshot{entry(domain.UnknownReference, "First"), entry("1", "One")}

		diff := Compare(older, newer)

		require.Len(t, diff.Modified, 1)
		assert.Equal(t, "Second", diff.Modified[0].Old.Name)
		assert.Equal(t, "First", diff.Modified[0].New.Name)
	})

	t.Run("position of first occurrence kept", func(t *testing.T) {
		diff := Compare(nil, older)

		require.Len(t, diff.Added, 2)
		assert.Equal(t, domain.UnknownReference, diff.Added[0].ReferenceNumber)
		assert.Equal(t, "Second", diff.Added[0].Name)
		assert.Equal(t, "1", diff.Added[1].ReferenceNumber)
	})
}

func TestCompare_NilAndEmptyAliasesEqual(t *testing.T) {
	older := domain.Snapshot{{Type: domain.EntityIndividual, ReferenceNumber: "1", Name: "One"}}
	newer := domain.Snapshot{entry("1", "One")}

	assert.True(t, Compare(older, newer).IsEmpty())
}

func TestFieldChanges(t *testing.T) {
	tests := []struct {
		name  string
		older domain.Entry
		newer domain.Entry
		want  []domain.FieldChange
	}{
		{
			name:  "equal",
			older: entry("1", "One", "a"),
			newer: entry("1", "One", "a"),
			want:  nil,
		},
		{
			name:  "name",
			older: entry("1", "John DOE"),
			newer: entry("1", "John DOE JR"),
			want:  []domain.FieldChange{{Field: domain.FieldName, Old: "John DOE", New: "John DOE JR"}},
		},
		{
			name:  "type",
			older: entry("1", "One"),
			newer: domain.Entry{Type: "entity", ReferenceNumber: "1", Name: "One", Aliases: []string{}},
			want:  []domain.FieldChange{{Field: domain.FieldType, Old: "individual", New: "entity"}},
		},
		{
			name:  "alias replaced",
			older: entry("1", "One", "a", "b"),
			newer: entry("1", "One", "a", "c"),
			want: []domain.FieldChange{{
				Field: domain.FieldAliases, Added: []string{"c"}, Removed: []string{"b"},
			}},
		},
		{
			name:  "alias reordered",
			older: entry("1", "One", "a", "b"),
			newer: entry("1", "One", "b", "a"),
			want:  []domain.FieldChange{{Field: domain.FieldAliases, Reordered: true}},
		},
		{
			name:  "duplicate alias dropped",
			older: entry("1", "One", "a", "a"),
			newer: entry("1", "One", "a"),
			want:  []domain.FieldChange{{Field: domain.FieldAliases, Removed: []string{"a"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldChanges(tt.older, tt.newer))
		})
	}
}

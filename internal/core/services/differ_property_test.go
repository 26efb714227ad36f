package services

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// buildSnapshot turns generated keys and names into a snapshot. Keys are
// drawn from a small range so repeated reference numbers are common.
func buildSnapshot(prefix string, keys []int, names []string) domain.Snapshot {
	s := make(domain.Snapshot, 0, len(keys))
	for i, k := range keys {
		name := ""
		if len(names) > 0 {
			name = names[i%len(names)]
		}
		aliases := []string{}
		if k%2 == 0 {
			aliases = append(aliases, name)
		}
		s = append(s, entry(fmt.Sprintf("%s%d", prefix, k), name, aliases...))
	}
	return s
}

func uniqueKeys(keys []int) []int {
	seen := make(map[int]bool, len(keys))
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func newProperties(runs int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = runs
	return gopter.NewProperties(parameters)
}

func TestCompareProperties(t *testing.T) {
	properties := newProperties(200)
	keysGen := gen.SliceOf(gen.IntRange(0, 8))
	namesGen := gen.SliceOf(gen.AlphaString())

	properties.Property("comparing a snapshot with itself is empty", prop.ForAll(
		func(keys []int, names []string) bool {
			s := buildSnapshot("QDi.", keys, names)
			return Compare(s, s).IsEmpty()
		},
		keysGen, namesGen,
	))

	properties.Property("added and removed swap when arguments swap", prop.ForAll(
		func(keysA, keysB []int, names []string) bool {
			a := buildSnapshot("QDi.", keysA, names)
			b := buildSnapshot("QDi.", keysB, names[min(1, len(names)):])

			ab := Compare(a, b)
			ba := Compare(b, a)

			return reflect.DeepEqual(ab.Added, ba.Removed) &&
				reflect.DeepEqual(ab.Removed, ba.Added) &&
				len(ab.Modified) == len(ba.Modified)
		},
		keysGen, keysGen, namesGen,
	))

	properties.Property("disjoint snapshots are all added and removed", prop.ForAll(
		func(keysA, keysB []int, names []string) bool {
			a := buildSnapshot("A.", uniqueKeys(keysA), names)
			b := buildSnapshot("B.", uniqueKeys(keysB), names)

			diff := Compare(a, b)

			return len(diff.Modified) == 0 &&
				len(diff.Added) == len(b) && len(diff.Removed) == len(a) &&
				(len(b) == 0 || reflect.DeepEqual(diff.Added, []domain.Entry(b))) &&
				(len(a) == 0 || reflect.DeepEqual(diff.Removed, []domain.Entry(a)))
		},
		keysGen, keysGen, namesGen,
	))

	properties.Property("appending one alias yields exactly one modification", prop.ForAll(
		func(keys []int, names []string, pick int) bool {
			older := buildSnapshot("QDi.", uniqueKeys(keys), names)
			if len(older) == 0 {
				return true
			}
			target := pick % len(older)

			newer := make(domain.Snapshot, len(older))
			for i, e := range older {
				newer[i] = e.Clone()
			}
			newer[target].Aliases = append(newer[target].Aliases, "appended")

			diff := Compare(older, newer)

			return len(diff.Added) == 0 && len(diff.Removed) == 0 &&
				len(diff.Modified) == 1 &&
				diff.Modified[0].ReferenceNumber == older[target].ReferenceNumber
		},
		keysGen, namesGen, gen.IntRange(0, 100),
	))

	properties.Property("report counts equal list lengths", prop.ForAll(
		func(keysA, keysB []int, names []string) bool {
			report := AssembleReport(Compare(
				buildSnapshot("QDi.", keysA, names),
				buildSnapshot("QDi.", keysB, names[min(1, len(names)):]),
			))
			return report.Counts.Added == len(report.Added) &&
				report.Counts.Removed == len(report.Removed) &&
				report.Counts.Modified == len(report.Modified)
		},
		keysGen, keysGen, namesGen,
	))

	properties.TestingRun(t)
}

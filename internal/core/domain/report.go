package domain

// Counts holds the cardinalities of a report's detail lists.
type Counts struct {
	Added    int
	Removed  int
	Modified int
}

// Total returns the number of changed keys.
func (c Counts) Total() int {
	return c.Added + c.Removed + c.Modified
}

// Report is a diff shaped for presentation: counts plus the detail lists.
// Counts always match the list lengths.
type Report struct {
	Counts   Counts
	Added    []Entry
	Removed  []Entry
	Modified []Modification
}

// HasChanges reports whether any entry was added, removed or modified.
func (r *Report) HasChanges() bool {
	return r != nil && r.Counts.Total() > 0
}

package domain

// Field names used in FieldChange.
const (
	FieldType    = "type"
	FieldName    = "name"
	FieldAliases = "aliases"
)

// FieldChange describes how one field differs between two versions of an entry.
type FieldChange struct {
	// Field is one of FieldType, FieldName or FieldAliases.
	Field string `json:"field"`

	// Old and New hold the scalar values for type and name changes.
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`

	// Added and Removed hold the alias multiset differences.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`

	// Reordered is set when the aliases are the same but in a different order.
	Reordered bool `json:"reordered,omitempty"`
}

// Modification pairs the old and new versions of an entry whose key is
// present in both snapshots but whose content differs.
type Modification struct {
	ReferenceNumber string
	Old             Entry
	New             Entry
	Changes         []FieldChange
}

// DiffResult is the classification of two snapshots keyed by reference number.
// Entries that are unchanged appear in none of the lists.
type DiffResult struct {
	Added    []Entry
	Removed  []Entry
	Modified []Modification
}

// IsEmpty reports whether the two snapshots were equivalent.
func (d DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

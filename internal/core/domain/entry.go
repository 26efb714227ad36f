package domain

// EntityType tags the kind of sanctioned party an Entry describes.
type EntityType string

// Supported entity types.
const (
	// EntityIndividual is a sanctioned natural person.
	EntityIndividual EntityType = "individual"
)

// UnknownReference is substituted when a record carries no reference number.
// It is not unique: every unresolvable record in a snapshot shares this key.
const UnknownReference = "UNKNOWN_REF"

// Entry is the canonical representation of one sanctioned individual.
type Entry struct {
	// Type is the entity tag, currently always EntityIndividual.
	Type EntityType

	// ReferenceNumber is the identity key within a snapshot. Never empty.
	ReferenceNumber string

	// Name is the space-joined text of the record's name fields.
	Name string

	// Aliases are the non-empty alias names in document order.
	// Duplicates are kept and order matters for equality.
	Aliases []string
}

// Equal reports whether two entries are structurally equal.
// Alias lists compare element by element; nil and empty are equal.
func (e Entry) Equal(other Entry) bool {
	if e.Type != other.Type || e.ReferenceNumber != other.ReferenceNumber || e.Name != other.Name {
		return false
	}
	if len(e.Aliases) != len(other.Aliases) {
		return false
	}
	for i := range e.Aliases {
		if e.Aliases[i] != other.Aliases[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no backing array with e.
func (e Entry) Clone() Entry {
	out := e
	out.Aliases = append([]string{}, e.Aliases...)
	return out
}

// Snapshot is the ordered sequence of entries published at one point in time.
// A snapshot is not modified once produced.
type Snapshot []Entry

// Len returns the number of entries.
func (s Snapshot) Len() int {
	return len(s)
}

// VersionToken is the opaque value a snapshot store hands out on read and
// expects back on write. The empty token means "nothing stored yet".
type VersionToken string

// IsZero reports whether the token is empty.
func (t VersionToken) IsZero() bool {
	return t == ""
}

// String returns the token as a string.
func (t VersionToken) String() string {
	return string(t)
}

// StoredSnapshot is a snapshot loaded from a store together with its version.
type StoredSnapshot struct {
	// Entries is the decoded snapshot.
	Entries Snapshot

	// Version is the token to supply when replacing this snapshot.
	Version VersionToken
}

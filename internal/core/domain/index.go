package domain

// EntryIndex maps reference numbers to entries while remembering the order in
// which keys were first seen.
//
// Putting an existing key replaces the stored entry but keeps the key's
// original position. Snapshots that repeat a reference number (including
// every record that fell back to UnknownReference) therefore collapse onto
// one key holding the last entry seen.
type EntryIndex struct {
	keys    []string
	entries map[string]Entry
}

// NewEntryIndex creates an empty index.
func NewEntryIndex(capacity int) *EntryIndex {
	return &EntryIndex{
		keys:    make([]string, 0, capacity),
		entries: make(map[string]Entry, capacity),
	}
}

// IndexEntries builds an index over a snapshot in document order.
func IndexEntries(s Snapshot) *EntryIndex {
	idx := NewEntryIndex(len(s))
	for _, e := range s {
		idx.Put(e)
	}
	return idx
}

// Put stores e under its reference number (last write wins).
func (x *EntryIndex) Put(e Entry) {
	if _, ok := x.entries[e.ReferenceNumber]; !ok {
		x.keys = append(x.keys, e.ReferenceNumber)
	}
	x.entries[e.ReferenceNumber] = e
}

// Get returns the entry stored under key.
func (x *EntryIndex) Get(key string) (Entry, bool) {
	e, ok := x.entries[key]
	return e, ok
}

// Has reports whether key is present.
func (x *EntryIndex) Has(key string) bool {
	_, ok := x.entries[key]
	return ok
}

// Keys returns the keys in first-insertion order.
func (x *EntryIndex) Keys() []string {
	out := make([]string, len(x.keys))
	copy(out, x.keys)
	return out
}

// Len returns the number of distinct keys.
func (x *EntryIndex) Len() int {
	return len(x.keys)
}

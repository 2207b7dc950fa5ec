package model

import (
	"encoding/json"
	"sort"
)

// SourceSet is the set of sources that independently discovered an item.
// Monotonic: sources are only ever added, never removed.
type SourceSet map[SourceID]struct{}

// NewSourceSet builds a set from the given IDs.
func NewSourceSet(ids ...SourceID) SourceSet {
	s := make(SourceSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts a source into the set.
func (s SourceSet) Add(id SourceID) {
	s[id] = struct{}{}
}

// Has reports whether the set contains id.
func (s SourceSet) Has(id SourceID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every source from other.
func (s SourceSet) Union(other SourceSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Count returns the number of distinct sources.
func (s SourceSet) Count() int {
	return len(s)
}

// List returns the sources in a stable sorted order.
func (s SourceSet) List() []SourceID {
	ids := make([]SourceID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MaxAuthority returns the highest authority among the set's sources.
func (s SourceSet) MaxAuthority() int {
	max := -1
	for id := range s {
		if a := id.Authority(); a > max {
			max = a
		}
	}
	return max
}

// MarshalJSON encodes the set as a sorted array of source IDs.
func (s SourceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON decodes an array of source IDs.
func (s *SourceSet) UnmarshalJSON(data []byte) error {
	var ids []SourceID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSourceSet(ids...)
	return nil
}

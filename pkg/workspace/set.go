package workspace

import (
	"encoding/json"
)

// Set is an unordered collection of workspace names
type Set map[Name]struct{}

// NewSet creates a set holding names
func NewSet(names ...Name) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name into the set
func (s Set) Add(name Name) {
	s[name] = struct{}{}
}

// Remove deletes name from the set
func (s Set) Remove(name Name) {
	delete(s, name)
}

// Has reports whether name is a member of the set
func (s Set) Has(name Name) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of members
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order
func (s Set) Sorted() []Name {
	out := make([]Name, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	SortNames(out)
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of names
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []Name
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewSet(names...)
	return nil
}

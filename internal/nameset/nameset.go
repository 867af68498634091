// Package nameset provides the string-set primitive shared by catalog and
// inventory comparisons. Names are compared byte-for-byte; any normalization
// happens before a name enters a set.
package nameset

import "sort"

// Set is an unordered collection of unique names.
type Set map[string]struct{}

// New builds a set from the given names.
func New(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Add inserts a name into the set.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is a member of the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names in the set.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in ascending byte order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Diff returns the members of s that are not in other.
func (s Set) Diff(other Set) Set {
	out := Set{}
	for name := range s {
		if !other.Has(name) {
			out.Add(name)
		}
	}
	return out
}

// Intersect returns the members present in both s and other.
func (s Set) Intersect(other Set) Set {
	out := Set{}
	for name := range s {
		if other.Has(name) {
			out.Add(name)
		}
	}
	return out
}

// Union returns the members present in either set.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for name := range s {
		out.Add(name)
	}
	for name := range other {
		out.Add(name)
	}
	return out
}

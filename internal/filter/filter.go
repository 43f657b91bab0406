package filter

import (
	"cmp"
	"maps"
	"slices"
)

// Severity levels a filter can select.
const (
	LevelInformation = "Information"
	LevelWarning     = "Warning"
	LevelError       = "Error"
)

// AllLevels lists the selectable levels in display order.
var AllLevels = []string{LevelInformation, LevelWarning, LevelError}

// Set is an unordered collection of values. A nil Set means "no restriction".
type Set[T cmp.Ordered] map[T]struct{}

// NewSet builds a Set from values. No values yields nil so an empty selection
// never turns into a filter that matches nothing.
func NewSet[T cmp.Ordered](values ...T) Set[T] {
	if len(values) == 0 {
		return nil
	}
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set[T]) Sorted() []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(s))
}

// Description is the free-text predicate applied to a record's description.
type Description struct {
	Text       string
	Negate     bool
	IncludeXML bool
}

// Filter is a conjunctive predicate over event-log records. Nil fields match
// every record.
type Filter struct {
	IDs         Set[int]
	Sources     Set[string]
	Tasks       Set[string]
	Levels      Set[string]
	Description *Description
}

// Normalize drops empty sets and blank descriptions so they read as "match all".
func (f Filter) Normalize() Filter {
	if len(f.IDs) == 0 {
		f.IDs = nil
	}
	if len(f.Sources) == 0 {
		f.Sources = nil
	}
	if len(f.Tasks) == 0 {
		f.Tasks = nil
	}
	if len(f.Levels) == 0 {
		f.Levels = nil
	}
	if f.Description != nil && f.Description.Text == "" {
		f.Description = nil
	}
	return f
}

// IsEmpty reports whether the filter places no restriction on records.
func (f Filter) IsEmpty() bool {
	n := f.Normalize()
	return n.IDs == nil && n.Sources == nil && n.Tasks == nil && n.Levels == nil && n.Description == nil
}

// Equal compares filters by their compact serialization.
func Equal(a, b Filter) bool {
	return Stringify(a, false) == Stringify(b, false)
}

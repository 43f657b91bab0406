package filter

import (
	"regexp"
	"strings"

	"github.com/five82/logsieve/internal/eventlog"
)

// Matcher evaluates a compiled filter against records.
type Matcher struct {
	f       Filter
	pattern *regexp.Regexp
	needle  string
}

// Compile prepares f for repeated evaluation. Description text is used as a
// case-insensitive regular expression, falling back to a plain substring when
// it does not compile.
func Compile(f Filter) *Matcher {
	m := &Matcher{f: f.Normalize()}
	if d := m.f.Description; d != nil {
		if re, err := regexp.Compile("(?i)" + d.Text); err == nil {
			m.pattern = re
		} else {
			m.needle = strings.ToLower(d.Text)
		}
	}
	return m
}

// Filter returns the normalized filter the matcher was built from.
func (m *Matcher) Filter() Filter {
	return m.f
}

// Match reports whether r satisfies every restriction of the filter.
func (m *Matcher) Match(r eventlog.Record) bool {
	f := m.f
	if f.IDs != nil && !f.IDs.Has(r.ID) {
		return false
	}
	if f.Sources != nil && !f.Sources.Has(r.Source) {
		return false
	}
	if f.Tasks != nil && !f.Tasks.Has(r.Task) {
		return false
	}
	if f.Levels != nil && !f.Levels.Has(r.Level) {
		return false
	}
	if f.Description == nil {
		return true
	}
	return m.matchDescription(r) != f.Description.Negate
}

func (m *Matcher) matchDescription(r eventlog.Record) bool {
	text := r.Description
	if m.f.Description.IncludeXML && r.XML != "" {
		text += "\n" + r.XML
	}
	if m.pattern != nil {
		return m.pattern.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), m.needle)
}

// Apply returns the records that match f, preserving order.
func Apply(f Filter, records []eventlog.Record) []eventlog.Record {
	if f.IsEmpty() {
		return records
	}
	m := Compile(f)
	out := make([]eventlog.Record, 0, len(records))
	for _, r := range records {
		if m.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

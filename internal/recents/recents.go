package recents

import (
	"fmt"
	"log"
	"slices"

	"github.com/five82/logsieve/internal/filter"
)

const (
	maxFilters             = 8
	maxEntriesWithSentinel = maxFilters + 1
)

// Entry is a remembered filter. Filter is the compact serialization used to
// re-apply it; ReadableFilter is the indented form, used both as the display
// label and as the key that identifies equal filters.
type Entry struct {
	Filter         string `json:"filter"`
	ReadableFilter string `json:"readableFilter"`
}

// NewEntry serializes f in both forms.
func NewEntry(f filter.Filter) *Entry {
	return &Entry{
		Filter:         filter.Stringify(f, false),
		ReadableFilter: filter.Stringify(f, true),
	}
}

// Storage persists the recents list. A nil element is the "no filter" sentinel.
type Storage interface {
	Load() ([]*Entry, error)
	Save(entries []*Entry) error
}

// Manager keeps the most-recently-used filters in relevance order. The first
// slot may hold a nil sentinel meaning "no filter"; it counts toward the
// capacity of nine.
type Manager struct {
	storage Storage
	entries []*Entry
}

// NewManager loads the persisted list once. Unreadable storage is logged and
// treated as an empty history. When any filters were saved, the sentinel is
// placed first so "no filter" is offered as the most recent choice.
func NewManager(storage Storage) *Manager {
	m := &Manager{storage: storage}
	if storage == nil {
		return m
	}

	saved, err := storage.Load()
	if err != nil {
		log.Printf("recent filters unreadable, starting empty: %v", err)
		return m
	}
	saved = slices.DeleteFunc(saved, func(e *Entry) bool { return e == nil })
	if len(saved) == 0 {
		return m
	}
	if len(saved) > maxFilters {
		saved = saved[:maxFilters]
	}
	m.entries = append([]*Entry{nil}, saved...)
	return m
}

// Entries returns a copy of the list; nil elements are the sentinel.
func (m *Manager) Entries() []*Entry {
	out := make([]*Entry, len(m.entries))
	for i, e := range m.entries {
		if e != nil {
			dup := *e
			out[i] = &dup
		}
	}
	return out
}

// Len returns the number of entries including the sentinel.
func (m *Manager) Len() int {
	return len(m.entries)
}

// RecordApplied moves f to the front of the list and persists the result. An
// equal entry elsewhere in the list is removed first, and a leading sentinel
// is replaced rather than pushed down.
func (m *Manager) RecordApplied(f filter.Filter) error {
	entry := NewEntry(f)
	if idx := m.indexOf(entry.ReadableFilter); idx >= 0 {
		m.entries = slices.Delete(m.entries, idx, idx+1)
	}
	if len(m.entries) > 0 && m.entries[0] == nil {
		m.entries[0] = entry
	} else {
		m.entries = slices.Insert(m.entries, 0, entry)
	}
	m.truncate()
	return m.save()
}

// RecordVisited remembers a filter used for navigation without applying it.
// New filters go in the second slot so the entry in front keeps its place;
// filters already present are left where they are. Nothing is persisted.
func (m *Manager) RecordVisited(f filter.Filter) {
	entry := NewEntry(f)
	if m.indexOf(entry.ReadableFilter) >= 0 {
		return
	}
	m.entries = slices.Insert(m.entries, min(1, len(m.entries)), entry)
	m.truncate()
}

// Clear puts the sentinel at the front and persists the result. An empty list
// or one that already starts with the sentinel is left alone.
func (m *Manager) Clear() error {
	if len(m.entries) == 0 || m.entries[0] == nil {
		return nil
	}
	m.entries = slices.Insert(m.entries, 0, (*Entry)(nil))
	m.truncate()
	return m.save()
}

func (m *Manager) indexOf(readable string) int {
	return slices.IndexFunc(m.entries, func(e *Entry) bool {
		return e != nil && e.ReadableFilter == readable
	})
}

func (m *Manager) truncate() {
	limit := maxFilters
	if len(m.entries) > 0 && m.entries[0] == nil {
		limit = maxEntriesWithSentinel
	}
	if len(m.entries) > limit {
		clear(m.entries[limit:])
		m.entries = m.entries[:limit]
	}
}

func (m *Manager) save() error {
	if m.storage == nil {
		return nil
	}
	if err := m.storage.Save(m.Entries()); err != nil {
		return fmt.Errorf("save recent filters: %w", err)
	}
	return nil
}

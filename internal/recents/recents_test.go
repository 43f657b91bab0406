package recents

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/five82/logsieve/internal/filter"
)

func idFilter(id int) filter.Filter {
	return filter.Filter{IDs: filter.NewSet(id)}
}

func readable(f filter.Filter) string {
	return filter.Stringify(f, true)
}

func labels(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e == nil {
			out[i] = "<none>"
			continue
		}
		out[i] = e.Filter
	}
	return out
}

type failingStorage struct {
	loadErr error
	saveErr error
	saved   [][]*Entry
}

func (s *failingStorage) Load() ([]*Entry, error) { return nil, s.loadErr }

func (s *failingStorage) Save(entries []*Entry) error {
	s.saved = append(s.saved, entries)
	return s.saveErr
}

func TestNewManager_EmptyStorage(t *testing.T) {
	m := NewManager(&MemoryStorage{})
	if m.Len() != 0 {
		t.Fatalf("Len = %d, want 0", m.Len())
	}
}

func TestNewManager_PrependsSentinelAndDropsStoredNulls(t *testing.T) {
	store := &MemoryStorage{}
	if err := store.Save([]*Entry{nil, NewEntry(idFilter(1)), nil, NewEntry(idFilter(2))}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := labels(NewManager(store).Entries())
	want := []string{"<none>", `{"ids":[1]}`, `{"ids":[2]}`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
}

func TestNewManager_CorruptStorageStartsEmpty(t *testing.T) {
	m := NewManager(&failingStorage{loadErr: errors.New("bad json")})
	if m.Len() != 0 {
		t.Fatalf("Len = %d, want 0", m.Len())
	}
}

func TestRecordApplied_DedupMovesToFront(t *testing.T) {
	m := NewManager(&MemoryStorage{})
	a, b := idFilter(1), idFilter(2)

	for _, f := range []filter.Filter{a, b, a} {
		if err := m.RecordApplied(f); err != nil {
			t.Fatalf("RecordApplied: %v", err)
		}
	}

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(entries), labels(entries))
	}
	if entries[0].ReadableFilter != readable(a) || entries[1].ReadableFilter != readable(b) {
		t.Fatalf("order = %v, want [a b]", labels(entries))
	}
}

func TestRecordApplied_DedupIgnoresSetOrder(t *testing.T) {
	m := NewManager(nil)
	_ = m.RecordApplied(filter.Filter{Sources: filter.NewSet("x", "y")})
	_ = m.RecordApplied(filter.Filter{Sources: filter.NewSet("y", "x")})
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
}

func TestRecordApplied_ReplacesLeadingSentinel(t *testing.T) {
	store := &MemoryStorage{}
	_ = store.Save([]*Entry{NewEntry(idFilter(1))})
	m := NewManager(store)

	if err := m.RecordApplied(idFilter(2)); err != nil {
		t.Fatalf("RecordApplied: %v", err)
	}
	got := labels(m.Entries())
	want := []string{`{"ids":[2]}`, `{"ids":[1]}`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
}

func TestRecordApplied_PersistsJSON(t *testing.T) {
	store := &MemoryStorage{}
	m := NewManager(store)
	if err := m.RecordApplied(idFilter(7)); err != nil {
		t.Fatalf("RecordApplied: %v", err)
	}
	want := `[{"filter":"{\"ids\":[7]}","readableFilter":"{\n    \"ids\": [\n        7\n    ]\n}"}]`
	if got := string(store.Raw()); got != want {
		t.Fatalf("persisted = %s, want %s", got, want)
	}
}

func TestRecordApplied_SaveErrorIsWrapped(t *testing.T) {
	storage := &failingStorage{saveErr: errors.New("disk full")}
	m := NewManager(storage)
	err := m.RecordApplied(idFilter(1))
	if err == nil || !strings.Contains(err.Error(), "save recent filters") {
		t.Fatalf("err = %v, want wrapped save error", err)
	}
	if m.Len() != 1 {
		t.Fatalf("in-memory list should keep the entry, Len = %d", m.Len())
	}
}

func TestCapacity(t *testing.T) {
	m := NewManager(&MemoryStorage{})
	for i := range 10 {
		if err := m.RecordApplied(idFilter(i)); err != nil {
			t.Fatalf("RecordApplied: %v", err)
		}
	}
	entries := m.Entries()
	if len(entries) != maxFilters {
		t.Fatalf("len = %d, want %d", len(entries), maxFilters)
	}
	if entries[0].ReadableFilter != readable(idFilter(9)) {
		t.Fatalf("front = %q, want most recent filter", entries[0].Filter)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries = m.Entries()
	if len(entries) != maxEntriesWithSentinel || entries[0] != nil {
		t.Fatalf("after Clear = %v, want sentinel + %d filters", labels(entries), maxFilters)
	}

	// Applying again consumes the sentinel and drops back to eight filters.
	_ = m.RecordApplied(idFilter(100))
	if m.Len() != maxFilters {
		t.Fatalf("Len = %d, want %d", m.Len(), maxFilters)
	}
}

func TestClear(t *testing.T) {
	store := &MemoryStorage{}
	m := NewManager(store)

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("Clear on empty list should be a no-op, Len = %d", m.Len())
	}

	_ = m.RecordApplied(idFilter(1))
	_ = m.Clear()
	_ = m.Clear()
	got := labels(m.Entries())
	want := []string{"<none>", `{"ids":[1]}`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
	if !strings.HasPrefix(string(store.Raw()), "[null,") {
		t.Fatalf("persisted = %s, want leading null", store.Raw())
	}
}

func TestRecordVisited(t *testing.T) {
	store := &MemoryStorage{}
	m := NewManager(store)

	m.RecordVisited(idFilter(1))
	if m.Len() != 1 {
		t.Fatalf("visited on empty list: Len = %d, want 1", m.Len())
	}
	if store.Raw() != nil {
		t.Fatalf("RecordVisited should not persist")
	}

	_ = m.RecordApplied(idFilter(2))
	m.RecordVisited(idFilter(3))
	m.RecordVisited(idFilter(1)) // already present: no change

	got := labels(m.Entries())
	want := []string{`{"ids":[2]}`, `{"ids":[3]}`, `{"ids":[1]}`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
}

func TestRecordVisited_NeverDisplacesFront(t *testing.T) {
	m := NewManager(nil)
	for i := range maxFilters {
		_ = m.RecordApplied(idFilter(i))
	}
	front := m.Entries()[0].ReadableFilter

	for i := 100; i < 120; i++ {
		m.RecordVisited(idFilter(i))
		entries := m.Entries()
		if entries[0].ReadableFilter != front {
			t.Fatalf("front changed after visiting %d", i)
		}
		if len(entries) > maxFilters {
			t.Fatalf("len = %d exceeds capacity", len(entries))
		}
	}

	_ = m.Clear()
	m.RecordVisited(idFilter(500))
	entries := m.Entries()
	if entries[0] != nil || entries[1].ReadableFilter != readable(idFilter(500)) {
		t.Fatalf("visited after clear = %v, want sentinel then new filter", labels(entries))
	}
	if len(entries) != maxEntriesWithSentinel {
		t.Fatalf("len = %d, want %d", len(entries), maxEntriesWithSentinel)
	}
}

func TestEntriesReturnsCopies(t *testing.T) {
	m := NewManager(nil)
	_ = m.RecordApplied(idFilter(1))
	m.Entries()[0].Filter = "mutated"
	if got := m.Entries()[0].Filter; got == "mutated" {
		t.Fatalf("Entries should return copies")
	}
}

func ExampleManager() {
	m := NewManager(&MemoryStorage{})
	_ = m.RecordApplied(filter.Filter{Levels: filter.NewSet(filter.LevelError)})
	_ = m.Clear()
	for _, e := range m.Entries() {
		if e == nil {
			fmt.Println("(no filter)")
			continue
		}
		fmt.Println(e.Filter)
	}
	// Output:
	// (no filter)
	// {"levels":["Error"]}
}

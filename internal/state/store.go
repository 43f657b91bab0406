package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Filter              filter.Filter
	Focused             *eventlog.Record
	Records             []eventlog.Record
	RecordsFiltered     []eventlog.Record
	Unique              eventlog.UniqueValues
	Paths               []string
	Version             uint64
	LastLoaded          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed loads
}

// IsStale returns true when loading has failed repeatedly and the records on
// screen may be out of date.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// FocusedIndex returns the position of the focused record among the filtered
// records, or -1 when nothing visible is focused.
func (s Snapshot) FocusedIndex() int {
	if s.Focused == nil {
		return -1
	}
	return eventlog.IndexOf(s.RecordsFiltered, s.Focused.RecordNumber)
}

// Listener receives every snapshot published after a change.
type Listener func(Snapshot)

// Store holds the record set, the active filter and the focused record.
// Record slices handed out in snapshots are never modified afterwards and
// must be treated as read-only.
type Store struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	listeners map[int]Listener
	nextID    int
}

// Subscribe registers fn to be called synchronously after every change. The
// returned func removes the listener and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SetRecords replaces the record set. When err is non-nil the previous records
// are kept but the error is recorded for visibility.
func (s *Store) SetRecords(records []eventlog.Record, paths []string, err error) {
	s.mu.Lock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastLoaded = time.Now()
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.Records = slices.Clone(records)
		s.snapshot.Paths = slices.Clone(paths)
		s.snapshot.Unique = eventlog.Unique(s.snapshot.Records)
		s.snapshot.LastError = nil
		s.snapshot.LastLoaded = time.Now()
		s.snapshot.ConsecutiveFailures = 0
		s.refilterLocked()
	}
	s.publishLocked()
}

// SetFilter makes f the active filter.
func (s *Store) SetFilter(f filter.Filter) {
	s.mu.Lock()
	s.snapshot.Filter = f.Normalize()
	s.refilterLocked()
	s.publishLocked()
}

// SetFocused focuses the record with rec's number, or clears focus when rec is
// nil. Records that are not loaded are ignored.
func (s *Store) SetFocused(rec *eventlog.Record) {
	s.mu.Lock()
	if rec == nil {
		s.snapshot.Focused = nil
	} else {
		idx := eventlog.IndexOf(s.snapshot.Records, rec.RecordNumber)
		if idx < 0 {
			s.mu.Unlock()
			return
		}
		focused := s.snapshot.Records[idx]
		s.snapshot.Focused = &focused
	}
	s.publishLocked()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store) refilterLocked() {
	s.snapshot.RecordsFiltered = filter.Apply(s.snapshot.Filter, s.snapshot.Records)
	if s.snapshot.Focused == nil {
		return
	}
	idx := eventlog.IndexOf(s.snapshot.RecordsFiltered, s.snapshot.Focused.RecordNumber)
	if idx < 0 {
		s.snapshot.Focused = nil
		return
	}
	focused := s.snapshot.RecordsFiltered[idx]
	s.snapshot.Focused = &focused
}

// publishLocked bumps the version and notifies listeners after releasing the
// lock so they may call back into the store.
func (s *Store) publishLocked() {
	s.snapshot.Version++
	snap := s.copyLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) copyLocked() Snapshot {
	snap := s.snapshot
	if s.snapshot.Focused != nil {
		focused := *s.snapshot.Focused
		snap.Focused = &focused
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

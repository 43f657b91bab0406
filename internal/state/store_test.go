package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
)

func sampleRecords() []eventlog.Record {
	return []eventlog.Record{
		{RecordNumber: 1, ID: 100, Source: "app", Level: filter.LevelInformation},
		{RecordNumber: 2, ID: 200, Source: "db", Level: filter.LevelError},
		{RecordNumber: 3, ID: 100, Source: "app", Level: filter.LevelWarning},
	}
}

func TestStore_SetRecordsAndSnapshotClone(t *testing.T) {
	var s Store

	records := sampleRecords()
	before := time.Now()
	s.SetRecords(records, []string{"/tmp/a.jsonl"}, nil)

	snap := s.Snapshot()
	if len(snap.Records) != 3 || len(snap.RecordsFiltered) != 3 {
		t.Fatalf("snapshot records = %d/%d, want 3/3", len(snap.Records), len(snap.RecordsFiltered))
	}
	if snap.LastLoaded.Before(before) {
		t.Fatalf("LastLoaded = %v, want >= %v", snap.LastLoaded, before)
	}
	if !reflect.DeepEqual(snap.Unique.IDs, []int{100, 200}) {
		t.Fatalf("Unique.IDs = %v, want [100 200]", snap.Unique.IDs)
	}

	// The store keeps its own copy of the input.
	records[0].ID = 999
	if got := s.Snapshot().Records[0].ID; got != 100 {
		t.Fatalf("SetRecords should clone input; got id %d want 100", got)
	}
}

func TestStore_SetRecordsErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.SetRecords(sampleRecords(), nil, nil)
	origErr := errors.New("boom")
	s.SetRecords(nil, nil, origErr)

	snap := s.Snapshot()
	if len(snap.Records) != 3 {
		t.Fatalf("records changed on error: got %d want 3", len(snap.Records))
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.ConsecutiveFailures != 1 || snap.IsStale() {
		t.Fatalf("ConsecutiveFailures = %d stale=%v, want 1 false", snap.ConsecutiveFailures, snap.IsStale())
	}

	s.SetRecords(nil, nil, errors.New("again"))
	if !s.Snapshot().IsStale() {
		t.Fatalf("IsStale() = false after two failures")
	}
	s.SetRecords(sampleRecords(), nil, nil)
	if s.Snapshot().ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures not reset after success")
	}
}

func TestStore_SetFilterRefiltersAndDropsHiddenFocus(t *testing.T) {
	var s Store
	s.SetRecords(sampleRecords(), nil, nil)

	rec := sampleRecords()[1]
	s.SetFocused(&rec)
	if got := s.Snapshot().FocusedIndex(); got != 1 {
		t.Fatalf("FocusedIndex = %d, want 1", got)
	}

	s.SetFilter(filter.Filter{Sources: filter.NewSet("app")})
	snap := s.Snapshot()
	if len(snap.RecordsFiltered) != 2 {
		t.Fatalf("RecordsFiltered = %d, want 2", len(snap.RecordsFiltered))
	}
	if snap.Focused != nil {
		t.Fatalf("focus on hidden record should be cleared, got %#v", snap.Focused)
	}
}

func TestStore_SetFocusedIgnoresUnknownRecords(t *testing.T) {
	var s Store
	s.SetRecords(sampleRecords(), nil, nil)

	s.SetFocused(&eventlog.Record{RecordNumber: 42})
	if s.Snapshot().Focused != nil {
		t.Fatalf("unknown record should not be focused")
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	var s Store

	var versions []uint64
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
		// Listeners may read the store without deadlocking.
		_ = s.Snapshot()
	})

	s.SetRecords(sampleRecords(), nil, nil)
	s.SetFilter(filter.Filter{})
	if !reflect.DeepEqual(versions, []uint64{1, 2}) {
		t.Fatalf("versions = %v, want [1 2]", versions)
	}

	unsubscribe()
	unsubscribe()
	s.SetFocused(nil)
	if len(versions) != 2 {
		t.Fatalf("listener called after unsubscribe: %v", versions)
	}
}

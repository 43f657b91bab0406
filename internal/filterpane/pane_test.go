package filterpane

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
	"github.com/five82/logsieve/internal/recents"
	"github.com/five82/logsieve/internal/state"
)

func testRecords() []eventlog.Record {
	return []eventlog.Record{
		{RecordNumber: 1, ID: 4624, Source: "Security", Task: "Logon", Level: filter.LevelInformation, Description: "logon ok"},
		{RecordNumber: 2, ID: 4625, Source: "Security", Task: "Logon", Level: filter.LevelWarning, Description: "logon failed"},
		{RecordNumber: 3, ID: 7036, Source: "Service Control Manager", Task: "None", Level: filter.LevelInformation, Description: "service started"},
		{RecordNumber: 4, ID: 4625, Source: "Security", Task: "Logon", Level: filter.LevelWarning, Description: "logon failed again"},
		{RecordNumber: 5, ID: 1000, Source: "Application Error", Task: "None", Level: filter.LevelError, Description: "crash"},
	}
}

func newTestPane(t *testing.T) (*Pane, *state.Store, *recents.MemoryStorage) {
	t.Helper()
	store := &state.Store{}
	store.SetRecords(testRecords(), nil, nil)
	storage := &recents.MemoryStorage{}
	p := New(store, recents.NewManager(storage))
	t.Cleanup(p.Close)
	return p, store, storage
}

func focusedNumber(store *state.Store) uint64 {
	if f := store.Snapshot().Focused; f != nil {
		return f.RecordNumber
	}
	return 0
}

func recentLabels(entries []*recents.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e == nil {
			out[i] = "<none>"
		} else {
			out[i] = e.Filter
		}
	}
	return out
}

func TestFindNext_WalksMatchesForward(t *testing.T) {
	p, store, _ := newTestPane(t)
	failed := filter.Stringify(filter.Filter{IDs: filter.NewSet(4625)}, false)

	for _, want := range []uint64{2, 4} {
		found, err := p.FindNext(failed)
		if err != nil || !found {
			t.Fatalf("FindNext = %v, %v; want true, nil", found, err)
		}
		if got := focusedNumber(store); got != want {
			t.Fatalf("focused = %d, want %d", got, want)
		}
	}

	found, err := p.FindNext(failed)
	if err != nil || found {
		t.Fatalf("FindNext past last match = %v, %v; want false, nil", found, err)
	}
	if got := focusedNumber(store); got != 4 {
		t.Fatalf("focus moved to %d on miss, want 4", got)
	}
}

func TestFindPrevious_WithoutFocusStartsAtEnd(t *testing.T) {
	p, store, _ := newTestPane(t)
	logon := filter.Stringify(filter.Filter{Tasks: filter.NewSet("Logon")}, false)

	for _, want := range []uint64{4, 2, 1} {
		found, err := p.FindPrevious(logon)
		if err != nil || !found {
			t.Fatalf("FindPrevious = %v, %v; want true, nil", found, err)
		}
		if got := focusedNumber(store); got != want {
			t.Fatalf("focused = %d, want %d", got, want)
		}
	}
	if found, _ := p.FindPrevious(logon); found {
		t.Fatalf("FindPrevious before first match found a record")
	}
}

func TestFind_NoMatchLeavesFocus(t *testing.T) {
	p, store, _ := newTestPane(t)
	rec := testRecords()[2]
	store.SetFocused(&rec)

	nothing := filter.Stringify(filter.Filter{IDs: filter.NewSet(1)}, false)
	if found, err := p.FindNext(nothing); err != nil || found {
		t.Fatalf("FindNext = %v, %v; want false, nil", found, err)
	}
	if found, err := p.FindPrevious(nothing); err != nil || found {
		t.Fatalf("FindPrevious = %v, %v; want false, nil", found, err)
	}
	if got := focusedNumber(store); got != 3 {
		t.Fatalf("focused = %d, want 3", got)
	}
}

func TestFind_OnlyScansVisibleRecords(t *testing.T) {
	p, store, _ := newTestPane(t)
	store.SetFilter(filter.Filter{Levels: filter.NewSet(filter.LevelInformation)})

	failed := filter.Stringify(filter.Filter{IDs: filter.NewSet(4625)}, false)
	if found, _ := p.FindNext(failed); found {
		t.Fatalf("FindNext found a record hidden by the active filter")
	}
}

func TestFind_UsesFormWhenNoSavedFilter(t *testing.T) {
	p, store, _ := newTestPane(t)
	p.Form().Description = "crash"

	found, err := p.FindNext("")
	if err != nil || !found {
		t.Fatalf("FindNext = %v, %v; want true, nil", found, err)
	}
	if got := focusedNumber(store); got != 5 {
		t.Fatalf("focused = %d, want 5", got)
	}
}

func TestFind_RecordsVisitedWithoutPersisting(t *testing.T) {
	p, _, storage := newTestPane(t)
	first := filter.Filter{IDs: filter.NewSet(4624)}
	second := filter.Filter{IDs: filter.NewSet(4625)}
	if err := p.Apply(&first); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	persisted := string(storage.Raw())

	if _, err := p.FindNext(filter.Stringify(second, false)); err != nil {
		t.Fatalf("FindNext: %v", err)
	}
	got := strings.Join(recentLabels(p.Recents()), "|")
	want := `{"ids":[4624]}|{"ids":[4625]}`
	if got != want {
		t.Fatalf("recents = %s, want %s", got, want)
	}
	if string(storage.Raw()) != persisted {
		t.Fatalf("navigation changed persisted recents")
	}
}

func TestFind_MalformedSavedFilter(t *testing.T) {
	p, _, _ := newTestPane(t)
	_, err := p.FindNext("{not json")
	var perr *filter.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("FindNext error = %v, want *filter.ParseError", err)
	}
	if n := len(p.Recents()); n != 0 {
		t.Fatalf("recents length = %d, want 0", n)
	}
}

func TestApply_SetsFilterAndRecordsIt(t *testing.T) {
	p, store, _ := newTestPane(t)
	f := filter.Filter{Sources: filter.NewSet("Security")}
	if err := p.Apply(&f); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	snap := store.Snapshot()
	if !filter.Equal(snap.Filter, f) {
		t.Fatalf("active filter = %s", filter.Stringify(snap.Filter, false))
	}
	if len(snap.RecordsFiltered) != 3 {
		t.Fatalf("filtered records = %d, want 3", len(snap.RecordsFiltered))
	}
	if got := recentLabels(p.Recents()); len(got) != 1 || got[0] != `{"sources":["Security"]}` {
		t.Fatalf("recents = %v", got)
	}
}

func TestReset_ClearsFilterAndAddsSentinel(t *testing.T) {
	p, store, _ := newTestPane(t)
	f := filter.Filter{Sources: filter.NewSet("Security")}
	_ = p.Apply(&f)

	if err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap := store.Snapshot(); !snap.Filter.IsEmpty() || len(snap.RecordsFiltered) != 5 {
		t.Fatalf("filter not cleared: %s", filter.Stringify(snap.Filter, false))
	}
	got := strings.Join(recentLabels(p.Recents()), "|")
	if got != `<none>|{"sources":["Security"]}` {
		t.Fatalf("recents = %s", got)
	}
}

func TestApplySaved(t *testing.T) {
	p, store, _ := newTestPane(t)

	if err := p.ApplySaved(`{"levels":["Error"]}`); err != nil {
		t.Fatalf("ApplySaved: %v", err)
	}
	if n := len(store.Snapshot().RecordsFiltered); n != 1 {
		t.Fatalf("filtered records = %d, want 1", n)
	}

	if err := p.ApplySaved(""); err != nil {
		t.Fatalf("ApplySaved(sentinel): %v", err)
	}
	if !store.Snapshot().Filter.IsEmpty() {
		t.Fatalf("sentinel did not clear the filter")
	}

	before := store.Snapshot().Version
	var perr *filter.ParseError
	if err := p.ApplySaved("nope"); !errors.As(err, &perr) {
		t.Fatalf("ApplySaved error = %v, want *filter.ParseError", err)
	}
	if store.Snapshot().Version != before {
		t.Fatalf("malformed filter changed the store")
	}
}

func TestPane_FormTracksStore(t *testing.T) {
	p, store, _ := newTestPane(t)

	if got := p.Form().Sources.Keys; len(got) != 3 {
		t.Fatalf("source keys = %v, want 3 values", got)
	}

	store.SetFilter(filter.Filter{Sources: filter.NewSet("Security")})
	form := p.Form()
	if !form.Sources.On["Security"] || form.Sources.On["Application Error"] {
		t.Fatalf("form sources = %v after filter change", form.Sources.On)
	}

	// Unsaved edits survive focus changes.
	form.Description = "draft"
	rec := testRecords()[0]
	store.SetFocused(&rec)
	if p.Form().Description != "draft" {
		t.Fatalf("focus change discarded form edits")
	}

	p.Close()
	store.SetFilter(filter.Filter{})
	if p.Form().Description != "draft" {
		t.Fatalf("closed pane still follows the store")
	}
}

func TestPane_ReloadKeepsFormEdits(t *testing.T) {
	p, store, _ := newTestPane(t)

	form := p.Form()
	form.Description = "crash"
	form.NotMatch = true
	form.Sources.Toggle("Security")
	form.Levels.Toggle(filter.LevelInformation)

	// Reload with one source gone and one new.
	records := append(testRecords(), eventlog.Record{
		RecordNumber: 6, ID: 41, Source: "Kernel-Power", Level: filter.LevelError, Description: "reboot",
	})
	records = slices.DeleteFunc(records, func(r eventlog.Record) bool { return r.Source == "Service Control Manager" })
	store.SetRecords(records, nil, nil)

	form = p.Form()
	if form.Description != "crash" || !form.NotMatch {
		t.Fatalf("description = %q, negate = %v; want edits kept", form.Description, form.NotMatch)
	}
	if form.Sources.On["Security"] {
		t.Fatalf("Security toggle reset by reload")
	}
	if !form.Sources.On["Kernel-Power"] {
		t.Fatalf("new source Kernel-Power not offered as on")
	}
	if _, ok := form.Sources.On["Service Control Manager"]; ok {
		t.Fatalf("removed source still listed: %v", form.Sources.Keys)
	}
	if form.Levels.On[filter.LevelInformation] {
		t.Fatalf("level toggle reset by reload")
	}

	got := filter.Stringify(form.Filter(), false)
	want := `{"description":{"text":"crash","negate":true,"includeXml":false},"levels":["Error","Warning"],"sources":["Application Error","Kernel-Power"]}`
	if got != want {
		t.Fatalf("form filter = %s, want %s", got, want)
	}
}

func TestPane_FilterChangeDiscardsEdits(t *testing.T) {
	p, store, _ := newTestPane(t)

	p.Form().Description = "draft"
	store.SetFilter(filter.Filter{Tasks: filter.NewSet("Logon")})
	if p.Form().Description != "" {
		t.Fatalf("description = %q after filter change, want form rebuilt", p.Form().Description)
	}
}

package filterpane

import (
	"slices"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
	"github.com/five82/logsieve/internal/recents"
	"github.com/five82/logsieve/internal/state"
)

// Pane is the filter pane: the editable form, the recent-filters list and the
// apply/reset/find actions. It observes the store for its whole lifetime and
// must be closed to release the subscription.
//
// A Pane is driven from a single goroutine.
type Pane struct {
	store   *state.Store
	recents *recents.Manager
	form    Form

	// The form is rebuilt when the filter or the unique values change. A reload
	// that only changes the unique values keeps the user's edits.
	synced    bool
	filterKey string
	unique    eventlog.UniqueValues

	unsubscribe func()
}

// New creates a pane bound to store and subscribes to it.
func New(store *state.Store, recents *recents.Manager) *Pane {
	p := &Pane{store: store, recents: recents}
	p.sync(store.Snapshot())
	p.unsubscribe = store.Subscribe(p.sync)
	return p
}

// Close releases the store subscription. It is safe to call more than once.
func (p *Pane) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *Pane) sync(snap state.Snapshot) {
	key := filter.Stringify(snap.Filter, false)
	sameFilter := p.synced && key == p.filterKey
	if sameFilter && sameUnique(p.unique, snap.Unique) {
		return
	}
	form := NewForm(snap.Unique, snap.Filter)
	if sameFilter {
		form = form.withEdits(p.form)
	}
	p.synced = true
	p.filterKey = key
	p.unique = snap.Unique
	p.form = form
}

func sameUnique(a, b eventlog.UniqueValues) bool {
	return slices.Equal(a.IDs, b.IDs) && slices.Equal(a.Sources, b.Sources) && slices.Equal(a.Tasks, b.Tasks)
}

// Form returns the editable form.
func (p *Pane) Form() *Form {
	return &p.form
}

// Recents returns the recent-filters list; nil elements mean "no filter".
func (p *Pane) Recents() []*recents.Entry {
	return p.recents.Entries()
}

// ApplyCurrent applies the filter described by the form.
func (p *Pane) ApplyCurrent() error {
	f := p.form.Filter()
	return p.Apply(&f)
}

// ApplySaved applies a filter from the recents list. An empty string is the
// "no filter" sentinel.
func (p *Pane) ApplySaved(saved string) error {
	if saved == "" {
		return p.Apply(nil)
	}
	f, err := filter.Parse(saved)
	if err != nil {
		return err
	}
	return p.Apply(&f)
}

// Apply records f as the most recent filter and makes it active. A nil filter
// clears filtering. The filter is applied even when saving history fails; the
// save error is returned.
func (p *Pane) Apply(f *filter.Filter) error {
	var err error
	if f == nil {
		err = p.recents.Clear()
		p.store.SetFilter(filter.Filter{})
	} else {
		err = p.recents.RecordApplied(*f)
		p.store.SetFilter(*f)
	}
	// The form always mirrors the filter just applied, even when the active
	// filter did not change.
	p.synced = false
	p.sync(p.store.Snapshot())
	return err
}

// Reset clears the active filter.
func (p *Pane) Reset() error {
	return p.Apply(nil)
}

// FindNext focuses the next visible record matching saved, or the form's filter
// when saved is empty. It reports whether focus moved.
func (p *Pane) FindNext(saved string) (bool, error) {
	return p.find(saved, Next)
}

// FindPrevious focuses the previous visible record matching saved, or the
// form's filter when saved is empty.
func (p *Pane) FindPrevious(saved string) (bool, error) {
	return p.find(saved, Previous)
}

type scanFunc func(records []eventlog.Record, focused int, m *filter.Matcher) int

func (p *Pane) find(saved string, scan scanFunc) (bool, error) {
	f := p.form.Filter()
	if saved != "" {
		parsed, err := filter.Parse(saved)
		if err != nil {
			return false, err
		}
		f = parsed
	}
	p.recents.RecordVisited(f)

	snap := p.store.Snapshot()
	idx := scan(snap.RecordsFiltered, snap.FocusedIndex(), filter.Compile(f))
	if idx < 0 {
		return false, nil
	}
	rec := snap.RecordsFiltered[idx]
	p.store.SetFocused(&rec)
	return true, nil
}

package filterpane

import (
	"slices"
	"strconv"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
)

// Toggles is an ordered group of on/off switches keyed by display value.
type Toggles struct {
	Keys []string
	On   map[string]bool
}

func newToggles(keys []string, included func(string) bool) Toggles {
	t := Toggles{Keys: keys, On: make(map[string]bool, len(keys))}
	for _, k := range keys {
		t.On[k] = included(k)
	}
	return t
}

// Toggle flips the switch for key.
func (t *Toggles) Toggle(key string) {
	if _, ok := t.On[key]; ok {
		t.On[key] = !t.On[key]
	}
}

// SetAll turns every switch on or off.
func (t *Toggles) SetAll(on bool) {
	for _, k := range t.Keys {
		t.On[k] = on
	}
}

// selection returns the selected keys, or nil when the group places no
// restriction: every switch on, or every switch off.
func (t Toggles) selection() []string {
	var on []string
	for _, k := range t.Keys {
		if t.On[k] {
			on = append(on, k)
		}
	}
	if len(on) == len(t.Keys) {
		return nil
	}
	return on
}

// Form is the editable state of the filter pane.
type Form struct {
	IDs         Toggles
	Sources     Toggles
	Tasks       Toggles
	Levels      Toggles
	Description string
	NotMatch    bool
	IncludeXML  bool
}

// NewForm builds switches for every unique value, turned on when f includes it.
func NewForm(unique eventlog.UniqueValues, f filter.Filter) Form {
	ids := make([]string, len(unique.IDs))
	for i, id := range unique.IDs {
		ids[i] = strconv.Itoa(id)
	}

	form := Form{
		IDs: newToggles(ids, func(k string) bool {
			id, _ := strconv.Atoi(k)
			return f.IDs == nil || f.IDs.Has(id)
		}),
		Sources: newToggles(slices.Clone(unique.Sources), func(k string) bool {
			return f.Sources == nil || f.Sources.Has(k)
		}),
		Tasks: newToggles(slices.Clone(unique.Tasks), func(k string) bool {
			return f.Tasks == nil || f.Tasks.Has(k)
		}),
		Levels: newToggles(slices.Clone(filter.AllLevels), func(k string) bool {
			return f.Levels == nil || f.Levels.Has(k)
		}),
	}
	if d := f.Description; d != nil {
		form.Description = d.Text
		form.NotMatch = d.Negate
		form.IncludeXML = d.IncludeXML
	}
	return form
}

// Filter converts the form into a filter. Groups with nothing deselected, or
// nothing selected, impose no restriction.
func (f Form) Filter() filter.Filter {
	var ids []int
	for _, k := range f.IDs.selection() {
		if id, err := strconv.Atoi(k); err == nil {
			ids = append(ids, id)
		}
	}
	out := filter.Filter{
		IDs:     filter.NewSet(ids...),
		Sources: filter.NewSet(f.Sources.selection()...),
		Tasks:   filter.NewSet(f.Tasks.selection()...),
		Levels:  filter.NewSet(f.Levels.selection()...),
	}
	if f.Description != "" {
		out.Description = &filter.Description{
			Text:       f.Description,
			Negate:     f.NotMatch,
			IncludeXML: f.IncludeXML,
		}
	}
	return out.Normalize()
}

// withEdits copies the user's edits from prev onto f. Switches whose key no
// longer exists are dropped; new keys keep the state f gave them.
func (f Form) withEdits(prev Form) Form {
	f.Description = prev.Description
	f.NotMatch = prev.NotMatch
	f.IncludeXML = prev.IncludeXML
	for _, pair := range []struct{ dst, src *Toggles }{
		{&f.IDs, &prev.IDs},
		{&f.Sources, &prev.Sources},
		{&f.Tasks, &prev.Tasks},
		{&f.Levels, &prev.Levels},
	} {
		for _, k := range pair.dst.Keys {
			if on, ok := pair.src.On[k]; ok {
				pair.dst.On[k] = on
			}
		}
	}
	return f
}

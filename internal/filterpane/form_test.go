package filterpane

import (
	"testing"

	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
)

func TestForm_RoundTripsFilter(t *testing.T) {
	unique := eventlog.Unique(testRecords())
	tests := []struct {
		name string
		in   filter.Filter
		want string
	}{
		{name: "empty", in: filter.Filter{}, want: `{}`},
		{name: "ids", in: filter.Filter{IDs: filter.NewSet(4625, 7036)}, want: `{"ids":[4625,7036]}`},
		{name: "levels", in: filter.Filter{Levels: filter.NewSet(filter.LevelError)}, want: `{"levels":["Error"]}`},
		{
			name: "description",
			in: filter.Filter{
				Tasks:       filter.NewSet("Logon"),
				Description: &filter.Description{Text: "failed", Negate: true, IncludeXML: true},
			},
			want: `{"description":{"text":"failed","negate":true,"includeXml":true},"tasks":["Logon"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Stringify(NewForm(unique, tt.in).Filter(), false)
			if got != tt.want {
				t.Fatalf("Filter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestForm_AllOrNothingIsUnrestricted(t *testing.T) {
	form := NewForm(eventlog.Unique(testRecords()), filter.Filter{})

	form.Sources.SetAll(false)
	form.Levels.Toggle(filter.LevelInformation)
	form.Levels.Toggle(filter.LevelInformation)

	f := form.Filter()
	if f.Sources != nil || f.Levels != nil {
		t.Fatalf("Filter() = %s, want no source or level restriction", filter.Stringify(f, false))
	}

	form.Levels.Toggle(filter.LevelWarning)
	if got := filter.Stringify(form.Filter(), false); got != `{"levels":["Error","Information"]}` {
		t.Fatalf("Filter() = %s", got)
	}
}

func TestForm_ToggleIgnoresUnknownKeys(t *testing.T) {
	form := NewForm(eventlog.Unique(testRecords()), filter.Filter{})
	form.Tasks.Toggle("Missing")
	if _, ok := form.Tasks.On["Missing"]; ok {
		t.Fatalf("Toggle added an unknown key")
	}
}

func TestNextPrevious(t *testing.T) {
	records := testRecords()
	m := filter.Compile(filter.Filter{Levels: filter.NewSet(filter.LevelWarning)})

	tests := []struct {
		name    string
		scan    scanFunc
		focused int
		want    int
	}{
		{name: "next from none", scan: Next, focused: -1, want: 1},
		{name: "next from match", scan: Next, focused: 1, want: 3},
		{name: "next from last", scan: Next, focused: 3, want: -1},
		{name: "previous from none", scan: Previous, focused: -1, want: 3},
		{name: "previous from match", scan: Previous, focused: 3, want: 1},
		{name: "previous from first", scan: Previous, focused: 0, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scan(records, tt.focused, m); got != tt.want {
				t.Fatalf("index = %d, want %d", got, tt.want)
			}
		})
	}

	if got := Next(nil, -1, m); got != -1 {
		t.Fatalf("Next(nil) = %d, want -1", got)
	}
	if got := Previous(nil, -1, m); got != -1 {
		t.Fatalf("Previous(nil) = %d, want -1", got)
	}
}

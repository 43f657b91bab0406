package eventlog

import (
	"cmp"
	"slices"
	"time"
)

// Record is a single event-log entry.
type Record struct {
	RecordNumber uint64
	ID           int
	Source       string
	Task         string
	Level        string
	Time         time.Time
	Description  string
	XML          string
}

// UniqueValues lists the distinct ids, sources and tasks across a record set.
type UniqueValues struct {
	IDs     []int
	Sources []string
	Tasks   []string
}

// Unique collects the sorted distinct values the filter pane offers as toggles.
func Unique(records []Record) UniqueValues {
	ids := make(map[int]struct{})
	sources := make(map[string]struct{})
	tasks := make(map[string]struct{})
	for _, r := range records {
		ids[r.ID] = struct{}{}
		if r.Source != "" {
			sources[r.Source] = struct{}{}
		}
		if r.Task != "" {
			tasks[r.Task] = struct{}{}
		}
	}
	return UniqueValues{
		IDs:     sortedKeys(ids),
		Sources: sortedKeys(sources),
		Tasks:   sortedKeys(tasks),
	}
}

// IndexOf returns the position of the record with the given number, or -1.
func IndexOf(records []Record, number uint64) int {
	return slices.IndexFunc(records, func(r Record) bool {
		return r.RecordNumber == number
	})
}

func sortedKeys[T cmp.Ordered](m map[T]struct{}) []T {
	if len(m) == 0 {
		return nil
	}
	out := make([]T, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

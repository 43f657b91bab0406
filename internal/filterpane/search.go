package filterpane

import (
	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
)

// Next returns the index of the first record after focused that m matches, or
// -1. A negative focused index starts the scan at the first record.
func Next(records []eventlog.Record, focused int, m *filter.Matcher) int {
	start := 0
	if focused >= 0 {
		start = focused + 1
	}
	for i := start; i < len(records); i++ {
		if m.Match(records[i]) {
			return i
		}
	}
	return -1
}

// Previous returns the index of the nearest record before focused that m
// matches, or -1. A negative focused index starts the scan at the last record.
func Previous(records []eventlog.Record, focused int, m *filter.Matcher) int {
	start := len(records) - 1
	if focused >= 0 {
		start = focused - 1
	}
	for i := min(start, len(records)-1); i >= 0; i-- {
		if m.Match(records[i]) {
			return i
		}
	}
	return -1
}

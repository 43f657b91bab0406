// Package ui is the Bubble Tea front end of logsieve.
//
// The main view is a table of the visible event records with an optional
// detail pane. Two modals sit on top of it: the filter modal edits the filter
// pane's form (levels, event IDs, sources, tasks, description) and the recents
// modal lists recently applied filters with a "no filter" entry first.
//
// The model never touches files. Load batches arrive from the poller over a
// channel and are applied to the state.Store inside Update, and store changes
// come back as snapshots through a latest-only feed. Everything that mutates
// the store, the filter pane or the recents list runs on the program goroutine.
//
// Key bindings are listed in keys.go and in the help overlay (?).
package ui

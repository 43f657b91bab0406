// Package filterpane implements the filter pane's behaviour independently of
// any rendering.
//
// # Form
//
// The form mirrors the active filter as groups of toggles, one per unique
// event ID, source and task in the loaded records plus the three levels. A
// group that is fully selected or fully deselected places no restriction.
//
// # Actions
//
// Apply makes a filter active and records it in the recents list; a nil filter
// clears filtering and inserts the "no filter" sentinel. FindNext and
// FindPrevious move focus among the visible records without changing the
// active filter, and remember the filter used as a visited entry.
//
// All mutations of the backing state.Store should happen on the goroutine that
// drives the Pane, since store listeners run synchronously.
package filterpane

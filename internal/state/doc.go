// Package state holds the record set, active filter and focused record shared
// by the logsieve components.
//
// # Overview
//
// Store is the single source of truth the filter pane and the TUI observe. It
// replaces a reactive state stream with explicit listener registration:
//
//	unsubscribe := store.Subscribe(func(snap state.Snapshot) {
//		render(snap)
//	})
//	defer unsubscribe()
//
// # Actions
//
// Three actions change the store, each publishing a new snapshot:
//
//   - SetRecords: replace the loaded records (or record a load error)
//   - SetFilter: change the active filter and recompute RecordsFiltered
//   - SetFocused: focus a record by record number, or clear focus
//
// Setting a filter that hides the focused record clears the focus.
//
// # Snapshots
//
// Snapshot is a value. Version increases by one per published change, which
// lets observers skip snapshots they have already handled. Record slices are
// replaced, never modified in place, so snapshots share them safely.
//
// # Error Semantics
//
//	// Success: replace records, clear error
//	store.SetRecords(records, paths, nil)
//
//	// Failure: keep old records, record error
//	store.SetRecords(nil, nil, err)
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// IsStale reports two or more consecutive failures.
//
// # Concurrency Model
//
// The store is guarded by a sync.RWMutex. Listeners run synchronously on the
// goroutine that made the change, after the lock is released, so they may read
// the store or dispatch further actions. In the TUI every action is issued from
// the Bubble Tea update loop, so listeners never run concurrently.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state

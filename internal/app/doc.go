// Package app is the composition root for the logsieve TUI.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/logsieve/config.toml
//  2. Route log output to $LOGSIEVE_DEBUG, or discard it
//  3. Load preferences and open the recent-filters storage
//  4. Start the background poller for the configured event globs
//  5. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Event globs, storage choice
//	       ├─────> OpenStorage()        file, sqlite or memory
//	       ├─────> recents.NewManager() Load saved filters once
//	       ├─────> StartPoller()        Background loads -> channel
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> ExpandGlobs() + fingerprint        │
//	│  ├─> LoadFiles() when files changed     │
//	│  └─> send eventlog.Batch                │
//	│      └─> UI applies it to state.Store   │
//	└─────────────────────────────────────────┘
//
// The poller never touches the store. Batches are applied on the UI
// goroutine, which owns the store, the filter pane and the recents manager.
//
// # Polling Behavior
//
// Files are checked every reload interval (default 5 seconds) and as soon as
// fsnotify reports a write to one of them. Unchanged files, judged by size and
// modification time, are not re-read. Consecutive failures double the wait up
// to 30 seconds.
//
// # Error Handling
//
// Configuration errors are fatal and returned from Run. Load errors are
// logged and delivered as batches so the UI can show them while keeping the
// previous records.
package app

// Package recents keeps the most-recently-used filter list.
//
// The list holds up to eight filters in relevance order. A nil entry at the
// front is the "no filter" sentinel: it is added by Clear, consumed by the
// next RecordApplied, and allowed as a ninth slot.
//
// Applied filters move to the front and are persisted through a Storage.
// Filters used only for next/previous navigation are slotted in second place
// by RecordVisited and stay in memory.
//
// Storage implementations:
//
//   - FileStorage: JSON array in ~/.local/state/logsieve/recents.json
//   - SQLiteStorage: key "savedFilters" in an ItemTable key/value database
//   - MemoryStorage: process memory, for tests and --no-history
package recents

// Package eventlog reads event-log records from disk for display and filtering.
//
// # Overview
//
// Records are exported by other tools as JSON. This package parses them into
// Record values, merges several files, and reports when those files change.
// It never writes records.
//
// # File Formats
//
// Two layouts are accepted and detected from the first non-space byte:
//
//   - JSON Lines: one record object per line, blank lines ignored
//   - JSON array: a single array of record objects
//
// Files ending in .zst are zstd-compressed and decompressed while reading.
//
// Example line:
//
//	{"recordNumber":12,"id":4625,"source":"Security","task":"Logon","level":"Warning","time":"2024-05-01T10:01:00Z","description":"An account failed to log on.","xml":"<Event>...</Event>"}
//
// Field aliases: providerName for source, taskName for task, message for
// description. Levels may be text (info, warning, error, critical) or Windows
// numeric levels (1-2 Error, 3 Warning, otherwise Information).
//
// # Record Identity
//
// RecordNumber identifies a record within a loaded set. Missing numbers are
// assigned by position, and LoadGlob reassigns numbers that collide across
// files. Focus and directional search compare records by this number.
//
// # Limits
//
// Read and LoadGlob keep at most maxRecords records, dropping the oldest.
//
// # Watching
//
// Watcher watches the parent directories of the loaded files so rotated or
// recreated files are noticed. Bursts of events are collapsed into a single
// notification on Changes.
//
// # Error Handling
//
// Missing files read as empty. Malformed JSON fails the whole file with the
// offending line number so a half-parsed file never replaces good data.
package eventlog

// Package config loads logsieve's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logsieve/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Event files: ~/.local/share/logsieve/events/**/*.{json,jsonl,zst}
//   - Recents storage: file (~/.local/state/logsieve/recents.json)
//   - Reload interval: 5s
//   - Record limit: 20000 per file
//
// # TOML Format
//
//	events = ["~/exports/*.jsonl", "/srv/events/**/*.jsonl.zst"]
//	recents_store = "sqlite"          # or "file"
//	recents_path = "~/.local/state/logsieve/state.db"
//	reload_seconds = 10
//	max_records = 50000
//
// Every field is optional. Event patterns use doublestar syntax and, like
// recents_path, are tilde-expanded and made absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors and unknown recents_store values.
// A missing config file is not an error.
package config

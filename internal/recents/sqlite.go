package recents

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.local/state/logsieve/state.db"

// SQLiteStorage keeps the list under StorageKey in a key/value ItemTable, the
// same layout browser-style local storage databases use.
type SQLiteStorage struct {
	Path string // empty uses ~/.local/state/logsieve/state.db
}

// Load reads the saved list. A missing database or row is an empty list.
func (s SQLiteStorage) Load() ([]*Entry, error) {
	resolved, err := resolvePath(s.Path, defaultDBPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(resolved); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := openDB(resolved)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw []byte
	err = db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", StorageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query recents: %w", err)
	}
	return decodeEntries(raw)
}

// Save upserts the list.
func (s SQLiteStorage) Save(entries []*Entry) error {
	resolved, err := resolvePath(s.Path, defaultDBPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal recents: %w", err)
	}

	db, err := openDB(resolved)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO ItemTable(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value", StorageKey, data); err != nil {
		return fmt.Errorf("store recents: %w", err)
	}
	return nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	_, _ = db.Exec("PRAGMA busy_timeout=5000")
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS ItemTable (key TEXT PRIMARY KEY, value BLOB)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return db, nil
}

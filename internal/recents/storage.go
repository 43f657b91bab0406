package recents

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// StorageKey names the saved list in key/value stores.
const StorageKey = "savedFilters"

const defaultFilePath = "~/.local/state/logsieve/recents.json"

// DefaultFilePath returns the default location of the recents file.
func DefaultFilePath() string {
	return defaultFilePath
}

// FileStorage keeps the list as a JSON array in a single file.
type FileStorage struct {
	Path string // empty uses ~/.local/state/logsieve/recents.json
}

// Load reads the saved list. A missing file is an empty list.
func (s FileStorage) Load() ([]*Entry, error) {
	resolved, err := resolvePath(s.Path, defaultFilePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recents: %w", err)
	}
	return decodeEntries(data)
}

// Save writes the list, creating parent directories as needed. The file is
// replaced atomically so a crash never leaves half a list behind.
func (s FileStorage) Save(entries []*Entry) error {
	resolved, err := resolvePath(s.Path, defaultFilePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create recents dir: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal recents: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write recents: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write recents: %w", err)
	}
	return nil
}

// MemoryStorage keeps the list in memory. It is used when history is disabled
// and in tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// Load returns the last saved list.
func (s *MemoryStorage) Load() ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return decodeEntries(s.data)
}

// Save stores a copy of entries.
func (s *MemoryStorage) Save(entries []*Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Raw returns the JSON last saved, or nil.
func (s *MemoryStorage) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func decodeEntries(data []byte) ([]*Entry, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse recents: %w", err)
	}
	return entries, nil
}

func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

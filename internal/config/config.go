package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Recents storage backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config captures where events are read from and where history is kept.
type Config struct {
	Events       []string
	RecentsStore string
	RecentsPath  string
	ReloadEvery  time.Duration
	MaxRecords   int
}

const (
	defaultConfigPath  = "~/.config/logsieve/config.toml"
	defaultEventsGlob  = "~/.local/share/logsieve/events/**/*.{json,jsonl,zst}"
	defaultReloadEvery = 5 * time.Second
	defaultMaxRecords  = 20000
)

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Events        []string `toml:"events"`
		RecentsStore  string   `toml:"recents_store"`
		RecentsPath   string   `toml:"recents_path"`
		ReloadSeconds int      `toml:"reload_seconds"`
		MaxRecords    int      `toml:"max_records"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var events []string
	for _, pattern := range raw.Events {
		if p := strings.TrimSpace(pattern); p != "" {
			events = append(events, mustExpand(p))
		}
	}
	if len(events) > 0 {
		cfg.Events = events
	}

	switch store := strings.ToLower(strings.TrimSpace(raw.RecentsStore)); store {
	case "":
	case StoreFile, StoreSQLite:
		cfg.RecentsStore = store
	default:
		return Config{}, fmt.Errorf("parse config: unknown recents_store %q", raw.RecentsStore)
	}

	if p := strings.TrimSpace(raw.RecentsPath); p != "" {
		cfg.RecentsPath = mustExpand(p)
	}
	if raw.ReloadSeconds > 0 {
		cfg.ReloadEvery = time.Duration(raw.ReloadSeconds) * time.Second
	}
	if raw.MaxRecords > 0 {
		cfg.MaxRecords = raw.MaxRecords
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		Events:       []string{mustExpand(defaultEventsGlob)},
		RecentsStore: StoreFile,
		ReloadEvery:  defaultReloadEvery,
		MaxRecords:   defaultMaxRecords,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logsieve/internal/config"
	"github.com/five82/logsieve/internal/prefs"
	"github.com/five82/logsieve/internal/recents"
	"github.com/five82/logsieve/internal/state"
	"github.com/five82/logsieve/internal/ui"
)

// debugLogEnv names the file that receives log output while the TUI runs.
const debugLogEnv = "LOGSIEVE_DEBUG"

// Options configure the logsieve application.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/logsieve/prefs.toml
	Events     []string // overrides the configured event globs when set
	NoHistory  bool     // keep recent filters in memory only
}

// Run boots the logsieve TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(opts.Events) > 0 {
		cfg.Events = opts.Events
	}

	if path := os.Getenv(debugLogEnv); path != "" {
		f, err := tea.LogToFile(path, "logsieve")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		// Stray output would corrupt the alt screen.
		log.SetOutput(io.Discard)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	manager := recents.NewManager(OpenStorage(cfg, opts.NoHistory))
	store := &state.Store{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loads := StartPoller(ctx, cfg.Events, cfg.MaxRecords, cfg.ReloadEvery)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Recents:   manager,
		Loads:     loads,
		Patterns:  cfg.Events,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

// OpenStorage returns the recent-filters backend selected by cfg.
func OpenStorage(cfg config.Config, noHistory bool) recents.Storage {
	switch {
	case noHistory:
		return &recents.MemoryStorage{}
	case cfg.RecentsStore == config.StoreSQLite:
		return recents.SQLiteStorage{Path: cfg.RecentsPath}
	default:
		return recents.FileStorage{Path: cfg.RecentsPath}
	}
}

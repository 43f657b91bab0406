package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/logsieve/internal/app"
	"github.com/five82/logsieve/internal/config"
	"github.com/five82/logsieve/internal/eventlog"
	"github.com/five82/logsieve/internal/filter"
	"github.com/five82/logsieve/internal/recents"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logsieve: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	prefsPath  string
	events     []string
	noHistory  bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "logsieve",
		Short:         "Browse and filter event-log records in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Events:     flags.events,
				NoHistory:  flags.noHistory,
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/logsieve/config.toml)")
	pf.StringSliceVar(&flags.events, "events", nil, "event file globs, overriding the config")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "UI preferences file (default ~/.config/logsieve/prefs.toml)")
	root.Flags().BoolVar(&flags.noHistory, "no-history", false, "keep recent filters in memory only")

	root.AddCommand(newMatchCmd(&flags), newRecentsCmd(&flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if len(flags.events) > 0 {
		cfg.Events = flags.events
	}
	return cfg, nil
}

func newMatchCmd(flags *rootFlags) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Print the records a saved filter matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filter.Parse(raw)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			records, _, err := eventlog.LoadGlob(cfg.Events, cfg.MaxRecords)
			if err != nil {
				return fmt.Errorf("load events: %w", err)
			}
			return printRecords(cmd.OutOrStdout(), filter.Apply(f, records))
		},
	}
	cmd.Flags().StringVar(&raw, "filter", "{}", "filter in its saved JSON form")
	return cmd
}

func printRecords(w io.Writer, records []eventlog.Record) error {
	for _, r := range records {
		when := "-"
		if !r.Time.IsZero() {
			when = r.Time.Format("2006-01-02T15:04:05Z07:00")
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			r.RecordNumber, when, r.Level, r.ID, r.Source, firstLine(r.Description)); err != nil {
			return err
		}
	}
	return nil
}

func newRecentsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recents",
		Short: "Inspect the recent filters list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print remembered filters, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			manager := recents.NewManager(app.OpenStorage(cfg, false))
			out := cmd.OutOrStdout()
			for _, entry := range manager.Entries() {
				line := "(no filter)"
				if entry != nil {
					line = entry.Filter
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all remembered filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := app.OpenStorage(cfg, false).Save([]*recents.Entry{}); err != nil {
				return fmt.Errorf("clear recents: %w", err)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}

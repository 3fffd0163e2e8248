package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/chronos/internal/scheduler"
	"github.com/sandeepkv93/chronos/internal/update"
	"github.com/spf13/cobra"
)

func addTUI(topLevel *cobra.Command, opts *rootOptions, e env) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the planner in the terminal.",
		Example: `
chronos tui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts, e)
		},
	}
	topLevel.AddCommand(cmd)
}

func runTUI(cmd *cobra.Command, opts *rootOptions, e env) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "chronos")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	store, blobs, err := openState(cfg)
	if err != nil {
		return err
	}
	defer blobs.Close()

	ctx := cmd.Context()
	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModelWithConfig(update.Options{
		State:     store.Load(ctx),
		Saver:     store,
		Suggester: suggestClient(ctx, cfg, e),
		Scheduler: engine,
		Notifier:  notifier,
	}, cfg)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chronos failed: %w", err)
	}
	return nil
}

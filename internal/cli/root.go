package cli

import (
	"context"

	"github.com/sandeepkv93/chronos/internal/config"
	"github.com/sandeepkv93/chronos/internal/suggest"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command. Empty values
// leave the config file and environment in charge.
type rootOptions struct {
	ConfigPath string
	Store      string
	DataDir    string
}

// env holds the collaborators commands build at run time, swapped out in
// tests.
type env struct {
	newGenerator func(ctx context.Context, cfg config.RuntimeConfig) (suggest.Generator, error)
}

func defaultEnv() env {
	return env{newGenerator: geminiGenerator}
}

func New() *cobra.Command {
	return newRoot(defaultEnv())
}

func newRoot(e env) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "chronos",
		Short: "Plan your day on a timeline, with AI help finding free slots.",
		Example: `
chronos
chronos --store diskv --data-dir ~/planner
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts, e)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to a config file (default .chronos.yaml in the working directory or $HOME).")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "Storage backend. One of 'sqlite' or 'diskv'.")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "Directory holding the planner data.")

	addTUI(cmd, opts, e)
	addSuggest(cmd, opts, e)
	addSchedules(cmd, opts)
	addTasks(cmd, opts)
	addVersion(cmd)
	return cmd
}

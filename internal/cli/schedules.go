package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/sandeepkv93/chronos/internal/model"
	"github.com/spf13/cobra"
)

func addSchedules(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "List schedules. The active one is marked with *.",
		Example: `
chronos schedules
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadState(cmd, opts)
			if err != nil {
				return err
			}
			printSchedules(cmd.OutOrStdout(), state)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addTasks(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the tasks of the active schedule.",
		Example: `
chronos tasks
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := loadState(cmd, opts)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), state)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func loadState(cmd *cobra.Command, opts *rootOptions) (model.State, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return model.State{}, err
	}
	store, blobs, err := openState(cfg)
	if err != nil {
		return model.State{}, err
	}
	defer blobs.Close()
	return store.Load(cmd.Context()), nil
}

func printSchedules(w io.Writer, state model.State) {
	active := color.New(color.FgGreen, color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", "NAME", "TASKS", "DONE")
	for _, sc := range state.Schedules {
		done := 0
		for _, t := range sc.Tasks {
			if t.Completed {
				done++
			}
		}
		marker, name := " ", sc.Name
		if sc.ID == state.CurrentScheduleID {
			marker, name = active.Sprint("*"), active.Sprint(sc.Name)
		}
		tbl.AddRow(marker, name, len(sc.Tasks), done)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printTasks(w io.Writer, state model.State) {
	idx := state.IndexOf(state.CurrentScheduleID)
	if idx < 0 {
		return
	}
	sc := state.Schedules[idx]
	_, _ = color.New(color.Bold).Fprintln(w, sc.Name)
	if len(sc.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks yet")
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, t := range sc.Tasks {
		check, title := "[ ]", t.Title
		if t.Completed {
			check, title = "[x]", faint.Sprint(t.Title)
		}
		tbl.AddRow(fmt.Sprintf("%d.", i+1), check, t.StartTime+"-"+t.EndTime, title)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

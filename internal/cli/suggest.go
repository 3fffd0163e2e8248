package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sandeepkv93/chronos/internal/planner"
	"github.com/sandeepkv93/chronos/internal/suggest"
	"github.com/sandeepkv93/chronos/internal/views"
	"github.com/spf13/cobra"
)

func addSuggest(topLevel *cobra.Command, opts *rootOptions, e env) {
	var (
		activity string
		patterns string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the AI for good times to fit an activity into the active schedule.",
		Example: `
chronos suggest --activity "Study for exam for 2 hours"
chronos suggest --activity "Go for a run" --patterns "I run best before breakfast." --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, blobs, err := openState(cfg)
			if err != nil {
				return err
			}
			defer blobs.Close()

			ctx := cmd.Context()
			mgr := planner.New(store.Load(ctx), planner.Options{})
			req := suggest.Request{
				ActivityDescription:      activity,
				ExistingSchedule:         mgr.TasksForAI(),
				UserProductivityPatterns: patterns,
			}
			if problems := req.Problems(); len(problems) > 0 {
				return fmt.Errorf("%w: %s", suggest.ErrInvalidRequest, strings.Join(problems, " "))
			}
			out, err := suggestClient(ctx, cfg, e).Suggest(ctx, req)
			if err != nil {
				return err
			}
			return printSuggestion(cmd.OutOrStdout(), suggest.DecodeTimes(out), asJSON)
		},
	}

	cmd.Flags().StringVarP(&activity, "activity", "a", "", "The activity to schedule.")
	cmd.Flags().StringVarP(&patterns, "patterns", "p", suggest.DefaultProductivityPatterns, "Your productivity patterns.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON.")
	topLevel.AddCommand(cmd)
}

func printSuggestion(w io.Writer, res suggest.Result, asJSON bool) error {
	if asJSON {
		if res.Times == nil {
			res.Times = []string{}
		}
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	heading := color.New(color.Bold)
	_, _ = heading.Fprintln(w, "Suggested Times:")
	if len(res.Times) == 0 {
		_, _ = fmt.Fprintln(w, "  No specific times suggested.")
	}
	for _, t := range res.Times {
		_, _ = fmt.Fprintf(w, "  • %s\n", t)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = heading.Fprintln(w, "Reasoning:")
	_, err := fmt.Fprintln(w, strings.TrimRight(views.RenderMarkdown(res.Reasoning, 80), "\n"))
	return err
}

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/lain/internal/daterange"
	"github.com/strrl/lain/internal/query"
	"github.com/strrl/lain/internal/render"
	"github.com/strrl/lain/internal/tablesort"
)

// queryFlags are the selection and date flags shared by stats and query.
type queryFlags struct {
	preset   string
	start    string
	end      string
	projects string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", string(daterange.Today), "date preset: today, yesterday, last7, last30 or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "custom range start (YYYY-MM-DD); implies --preset custom")
	cmd.Flags().StringVar(&f.end, "end", "", "custom range end (YYYY-MM-DD); implies --preset custom")
	cmd.Flags().StringVar(&f.projects, "projects", "", "comma-separated project folders (default all)")
}

func (f *queryFlags) build(now time.Time) (query.Query, error) {
	preset, err := daterange.ParsePreset(f.preset)
	if err != nil {
		return query.Query{}, err
	}
	if f.start != "" || f.end != "" {
		preset = daterange.Custom
	}
	for _, d := range []string{f.start, f.end} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(daterange.Layout, d); err != nil {
			return query.Query{}, fmt.Errorf("invalid date %q: want %s", d, daterange.Layout)
		}
	}

	state := daterange.State{Preset: preset, CustomStart: f.start, CustomEnd: f.end}
	var selected []string
	if f.projects != "" {
		selected = strings.Split(f.projects, ",")
	}
	return query.Build(selected, daterange.Resolve(state, now)), nil
}

// NewStatsCommand creates the stats command
func NewStatsCommand(root *rootOptions) *cobra.Command {
	var flags queryFlags
	var sortBy string
	var asc bool
	var width int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals, model distribution and sessions without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.build(time.Now())
			if err != nil {
				return err
			}
			col, err := tablesort.ParseColumn(sortBy)
			if err != nil {
				return err
			}
			st := tablesort.State{Column: col, Direction: tablesort.Desc}
			if asc {
				st.Direction = tablesort.Asc
			}

			client, _, err := root.client()
			if err != nil {
				return err
			}
			snap, err := client.FetchStats(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			p := render.NewPipeline(nil)
			p.SetWidth(width)
			frame := p.RenderAll(snap, st)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, frame.Cards)
			fmt.Fprintln(out)
			if frame.Chart != "" {
				fmt.Fprintln(out, frame.Chart)
			}
			fmt.Fprintln(out, frame.Legend)
			fmt.Fprintln(out)
			fmt.Fprintln(out, frame.Table)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort", string(tablesort.ColDate), "sort column")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort ascending")
	cmd.Flags().IntVar(&width, "width", 120, "output width in cells")
	return cmd
}

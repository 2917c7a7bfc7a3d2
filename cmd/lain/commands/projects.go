package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/lain/internal/selection"
)

// NewProjectsCommand creates the projects command
func NewProjectsCommand(root *rootOptions) *cobra.Command {
	var hideClaude bool
	var search string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the project directory without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := root.client()
			if err != nil {
				return err
			}

			projects, err := client.FetchProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch projects: %w", err)
			}

			sel := selection.New(nil)
			sel.Load(projects)
			sel.SetClaudeFilter(hideClaude)
			sel.SetSearchQuery(search)

			out := cmd.OutOrStdout()
			rows := sel.Visible()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No projects found")
				return nil
			}

			fmt.Fprintf(out, "Projects (%d/%d):\n", len(rows), len(sel.Rows()))
			fmt.Fprintln(out, "=========")
			for i, r := range rows {
				fmt.Fprintf(out, "%d. %s\n", i+1, r.Project.Name)
				fmt.Fprintf(out, "   Folder: %s\n", r.Project.Folder)
				fmt.Fprintf(out, "   Sessions: %d\n", r.Project.SessionCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideClaude, "hide-claude", false, "hide projects under ~/.claude")
	cmd.Flags().StringVar(&search, "search", "", "only list projects whose name or folder contains this text")
	return cmd
}

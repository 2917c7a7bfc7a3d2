package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command
func NewQueryCommand(root *rootOptions) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the stats URL the dashboard would request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.build(time.Now())
			if err != nil {
				return err
			}
			client, _, err := root.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.StatsURL(q))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

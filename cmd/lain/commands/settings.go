package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strrl/lain/internal/config"
	"github.com/strrl/lain/internal/prefs"
)

// NewInitConfigCommand creates the init-config command
func NewInitConfigCommand(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration (defaults, the existing file and
--api) to the config file, creating its directory if needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// NewPrefsCommand creates the prefs command
func NewPrefsCommand(root *rootOptions) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "List or clear the preferences the dashboard remembers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := prefs.Open(root.prefsFile())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			keys := store.Keys()
			if clearAll {
				for _, k := range keys {
					if err := store.Remove(k); err != nil {
						return fmt.Errorf("failed to remove %s: %w", k, err)
					}
				}
				fmt.Fprintf(out, "Cleared %d preferences\n", len(keys))
				return nil
			}

			if len(keys) == 0 {
				fmt.Fprintln(out, "No preferences stored")
				return nil
			}
			for _, k := range keys {
				v, _ := store.Get(k)
				fmt.Fprintf(out, "%s = %s\n", k, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every stored preference")
	return cmd
}

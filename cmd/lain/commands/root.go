package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/strrl/lain/internal/config"
	"github.com/strrl/lain/internal/datastore"
	"github.com/strrl/lain/internal/prefs"
	"github.com/strrl/lain/internal/tui"
)

const debugLogFile = "lain-debug.log"

type rootOptions struct {
	apiURL     string
	configPath string
	prefsPath  string
	debug      bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "lain",
		Short: "Terminal dashboard for Claude usage analytics",
		Long: `lain is a TUI dashboard over the usage analytics API. It shows totals,
a model distribution chart and a sortable session table for the selected
projects and date range.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/lain/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/lain/prefs.toml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write a debug log to "+debugLogFile)

	rootCmd.AddCommand(NewProjectsCommand(opts))
	rootCmd.AddCommand(NewStatsCommand(opts))
	rootCmd.AddCommand(NewQueryCommand(opts))
	rootCmd.AddCommand(NewInitConfigCommand(opts))
	rootCmd.AddCommand(NewPrefsCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

func (o *rootOptions) prefsFile() string {
	if o.prefsPath != "" {
		return o.prefsPath
	}
	return prefs.DefaultPath()
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configFile())
	if err != nil {
		return cfg, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	return cfg, nil
}

func (o *rootOptions) client() (*datastore.Client, config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	return datastore.NewClient(cfg.API.BaseURL, cfg.Timeout()), cfg, nil
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	client, cfg, err := opts.client()
	if err != nil {
		return err
	}

	if opts.debug {
		f, err := tea.LogToFile(debugLogFile, "lain")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("STARTUP | api=%s timeout=%s", client.BaseURL(), cfg.Timeout())

	store, err := prefs.Open(opts.prefsFile())
	if err != nil {
		// unreadable prefs fall back to defaults for this run
		log.Printf("PREFS_ERROR | path=%s error=%v", opts.prefsFile(), err)
	}

	if err := tui.Run(cmd.Context(), tui.Options{
		Source:       client,
		Prefs:        store,
		SidebarWidth: cfg.UI.SidebarWidth,
	}); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

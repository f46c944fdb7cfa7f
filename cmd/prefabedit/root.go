package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prefabworks/prefabedit/internal/config"
	"github.com/prefabworks/prefabedit/internal/tui"
)

var projectDirFlag string

var rootCmd = &cobra.Command{
	Use:   "prefabedit",
	Short: "Terminal scene and template editor",
	Long: `prefabedit is a terminal editor for scene files and the prefab
templates they instantiate. Running it with no arguments opens the
interactive editor in the current project.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := tui.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("start editor: %w", err)
		}
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDirFlag, "project", "p", "",
		"project directory (defaults to the working directory)")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(templatesCmd)
}

// loadConfig resolves the project directory, ensures the .prefabedit
// state folder exists, and builds the runtime configuration.
func loadConfig() (*config.Config, error) {
	dir := projectDirFlag
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}
	if err := config.InitProjectDir(dir); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", config.PrefabEditDir, err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

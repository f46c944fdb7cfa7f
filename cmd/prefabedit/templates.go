package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prefabworks/prefabedit/internal/asset"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the project's template assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		infos, err := asset.NewStore(cfg.AssetsDir()).Scan()
		if err != nil {
			return fmt.Errorf("scan %s: %w", cfg.AssetsDir(), err)
		}
		if len(infos) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no templates in %s\n", cfg.AssetsDir())
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tGUID\tPATH")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.GUID, info.Path)
		}
		return w.Flush()
	},
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"craftwiz/internal/config"
	"craftwiz/internal/recipes"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Load the items folder and report what was read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		store, rep := recipes.LoadDir(cfg.ItemsFolder)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d recipes loaded from %s\n", store.Len(), cfg.ItemsFolder)
		if rep.Replaced > 0 {
			fmt.Fprintf(out, "%d duplicate internal names replaced earlier files\n", rep.Replaced)
		}
		for _, s := range rep.Skipped {
			fmt.Fprintf(out, "  skipped %s: %v\n", s.Source, s.Err)
		}
		return nil
	},
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"craftwiz/internal/app"
	"craftwiz/internal/config"
	"craftwiz/internal/report"
)

var (
	profileName string
	topN        int
	rankFormat  string
	rankKey     string
	stripCodes  bool
)

var rankCmd = &cobra.Command{
	Use:   "rank <username>",
	Short: "Rank the most profitable crafts the player can afford",
	Long: `Resolve the player, pick a profile, decode its inventory and rank every
affordable recipe by bazaar profit.

Without --profile the profiles are listed and one is chosen by number.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	addTargetFlags(rankCmd)
	rankCmd.Flags().IntVarP(&topN, "top", "n", 0, "number of crafts to show (default from config)")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", "", "output format (text, json)")
}

// addTargetFlags registers the flags shared by commands that read an
// inventory.
func addTargetFlags(c *cobra.Command) {
	c.Flags().StringVarP(&profileName, "profile", "p", "", "profile cute name or id")
	c.Flags().StringVarP(&rankKey, "key", "k", "name", "inventory key (name, id)")
	c.Flags().BoolVar(&stripCodes, "strip", false, "strip § formatting codes from item names")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	top, err := rankLimit(cfg.Output.Top)
	if err != nil {
		return err
	}
	format := strings.ToLower(cfg.Output.Format)
	if rankFormat != "" {
		format = strings.ToLower(rankFormat)
	}
	if format != config.FormatText && format != config.FormatJSON {
		return fmt.Errorf("unknown format %q", format)
	}
	extract, err := extractOptions()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, os.Stdin, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Rank(cmd.Context(), target(args[0]), top, extract)
	if err != nil {
		return err
	}
	if format == config.FormatJSON {
		return report.JSON(cmd.OutOrStdout(), results)
	}
	return report.Text(cmd.OutOrStdout(), top, results)
}

func target(username string) app.Target {
	return app.Target{
		Username:    username,
		Profile:     profileName,
		Interactive: profileName == "",
	}
}

// rankLimit applies --top over the configured default. Zero means unset.
func rankLimit(configured int) (int, error) {
	switch {
	case topN < 0:
		return 0, fmt.Errorf("--top must be positive, got %d", topN)
	case topN > 0:
		return topN, nil
	}
	return configured, nil
}

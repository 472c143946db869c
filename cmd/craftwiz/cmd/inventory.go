package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"craftwiz/internal/app"
	"craftwiz/internal/config"
	"craftwiz/internal/inventory"
	"craftwiz/internal/report"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory <username>",
	Short: "Print the decoded inventory of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extract, err := extractOptions()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), config.Get(), os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		inv, err := a.Inventory(cmd.Context(), target(args[0]), extract)
		if err != nil {
			return err
		}
		return report.Inventory(cmd.OutOrStdout(), inv)
	},
}

func init() {
	addTargetFlags(inventoryCmd)
}

func extractOptions() (inventory.ExtractOptions, error) {
	opts := inventory.ExtractOptions{StripFormatting: stripCodes}
	switch rankKey {
	case "name", "":
		opts.Key = inventory.KeyDisplayName
	case "id":
		opts.Key = inventory.KeyItemID
	default:
		return opts, fmt.Errorf("unknown key %q (want name or id)", rankKey)
	}
	return opts, nil
}

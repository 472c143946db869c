// Package cmd provides the CLI commands for craftwiz.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"craftwiz/internal/config"
	"craftwiz/internal/logging"
)

const version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "craftwiz",
	Short: "Find profitable SkyBlock crafts from your own inventory",
	Long: `craftwiz reads a player's SkyBlock inventory, checks which item recipes it
can cover, and ranks those crafts by bazaar profit.

Examples:
  craftwiz rank Steve
  craftwiz rank Steve --profile Apple --top 10 --format json
  craftwiz inventory Steve --key id
  craftwiz recipes`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "craftwiz.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Logging.Debug = cfg.Logging.Debug || verbose
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "craftwiz version %s\n", version)
	},
}

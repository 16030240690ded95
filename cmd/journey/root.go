package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "journey",
	Short: "Journey is a guided journaling engine",
	Long: `Journey walks you through a sequence of questions, one at a time,
keeps every answer in a local ledger and compiles them into a single text you can keep.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default ~/.config/journey/config.toml)")
	rootCmd.PersistentFlags().String("dir", "", "Data directory for ledgers and the cursor (overrides ledger.dir)")
	rootCmd.PersistentFlags().String("catalog", "", "Step catalog: steps.json, steps.yaml, a Markdown directory or a URL")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

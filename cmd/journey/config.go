package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/journey/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Printf("Error resolving config path: %v\n", err)
			os.Exit(1)
		}
		if len(args) > 0 {
			if path, err = config.ExpandPath(args[0]); err != nil {
				fmt.Printf("Error resolving config path: %v\n", err)
				os.Exit(1)
			}
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Printf("Config already exists at %s (use --force to overwrite)\n", path)
			os.Exit(1)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Printf("Error creating config directory: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Run: func(cmd *cobra.Command, args []string) {
		flagPath, _ := cmd.Flags().GetString("config")
		_, path, exists, err := config.Load(flagPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if !exists {
			fmt.Printf("%s (not found, using defaults)\n", path)
			return
		}
		fmt.Println(path)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

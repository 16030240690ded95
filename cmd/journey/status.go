package main

import (
	"fmt"
	"os"

	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which steps are answered and where you are",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		_, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		ledger, err := eng.Ledger(ctx)
		if err != nil {
			fmt.Printf("Error loading ledger: %v\n", err)
			os.Exit(1)
		}
		cursor, err := eng.Cursor(ctx)
		if err != nil {
			fmt.Printf("Error reading cursor: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tui.StatusTable(eng.Catalog(), ledger, cursor))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

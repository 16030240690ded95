package main

import (
	"fmt"
	"os"

	"github.com/aretw0/journey/internal/cli"
	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Clear every answer and go back to the first step",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		_, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		first, err := eng.Restart(ctx)
		if err != nil {
			fmt.Printf("Error restarting journey: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ledger cleared. Back at step %s\n", first)
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

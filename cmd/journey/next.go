package main

import (
	"fmt"
	"os"

	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Save the current step and move to the next one",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		_, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		view, err := eng.Current(ctx)
		if err != nil {
			fmt.Printf("Error reading cursor: %v\n", err)
			os.Exit(1)
		}
		if view.Complete {
			fmt.Println("The journey is complete. Use 'journey compile' or 'journey restart'.")
			return
		}

		cursor, err := eng.Next(ctx, view.Step.ID, nil)
		if err != nil {
			fmt.Printf("Error advancing: %v\n", err)
			os.Exit(1)
		}
		if cursor == domain.CompleteSentinel {
			fmt.Println("Journey complete.")
			return
		}
		fmt.Printf("Now at step %s\n", cursor)
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

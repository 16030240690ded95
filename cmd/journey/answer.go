package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/internal/sanitize"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer <step-id> <text|->",
	Short: "Save the answer of a step",
	Long:  `Replaces the answer of a step. Pass "-" to read the answer from standard input.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		_, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		id, text := args[0], args[1]
		if _, err := eng.Step(id); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Printf("Error reading stdin: %v\n", err)
				os.Exit(1)
			}
			text = strings.TrimRight(string(data), "\n")
		}

		text, err := sanitize.Answer(text)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if _, err := eng.SaveText(ctx, id, text, domain.SaveExplicit); err != nil {
			fmt.Printf("Error saving answer: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(cli.StatusSaved)
	},
}

func init() {
	rootCmd.AddCommand(answerCmd)
}

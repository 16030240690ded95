package main

import (
	"fmt"
	"os"

	"github.com/aretw0/journey/internal/cli"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the compiled ledger",
	Long:  `Compiles every answer into the ledger text. It can also be saved to a directory or copied to the clipboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		text, err := eng.Compile(ctx)
		if err != nil {
			fmt.Printf("Error compiling ledger: %v\n", err)
			os.Exit(1)
		}

		exporter := cli.NewExporter(cfg.Artifact.Filename)
		out, _ := cmd.Flags().GetString("out")
		toClipboard, _ := cmd.Flags().GetBool("copy")

		if out == "" && !toClipboard {
			fmt.Println(text)
			return
		}
		if out != "" {
			path, err := exporter.Download(out, text)
			if err != nil {
				fmt.Printf("Error writing ledger: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("%s %s\n", cli.StatusSaved, path)
		}
		if toClipboard {
			status, err := exporter.Copy(text)
			fmt.Println(status)
			if err != nil {
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().String("out", "", "Directory to save the ledger file into")
	compileCmd.Flags().Bool("copy", false, "Copy the ledger to the clipboard")
}

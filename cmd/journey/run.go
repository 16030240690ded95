package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer the questions interactively",
	Long: `Opens the journal at the current step. Type your answer line by line;
it is saved as you type. Use :next to move on and :help for the other commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		cfg, eng, backend := openEngine(ctx, cmd, cli.EngineOptions{})
		defer backend.Close()

		if fresh, _ := cmd.Flags().GetBool("fresh"); fresh {
			if _, err := eng.Restart(ctx); err != nil {
				fmt.Printf("Error restarting journey: %v\n", err)
				os.Exit(1)
			}
		}

		logger, _ := newLogger(cmd, cfg)
		opts := cli.RunOptions{Exporter: cli.NewExporter(cfg.Artifact.Filename), Logger: logger}
		if cli.IsInteractive(os.Stdout) {
			tui.PrintBanner(strings.TrimSpace(journey.Version))
			opts.Render = tui.NewRenderer()
			opts.Color = true
		}

		if err := cli.RunSession(ctx, eng, os.Stdin, os.Stdout, opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if sig := ctx.Signal(); sig != nil {
			fmt.Printf("\nStopped (%v). Your answers are saved.\n", sig)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("fresh", false, "Clear the ledger and start from the first step")

	// 'run' is the default if no command is provided
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/internal/config"
	"github.com/spf13/cobra"
)

// loadConfig reads the configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			fmt.Printf("Error resolving --dir: %v\n", err)
			os.Exit(1)
		}
		if cfg.Ledger.SQLitePath == filepath.Join(cfg.Ledger.Dir, "journey.db") {
			cfg.Ledger.SQLitePath = filepath.Join(expanded, "journey.db")
		}
		cfg.Ledger.Dir = expanded
	}
	if source, _ := cmd.Flags().GetString("catalog"); source != "" {
		cfg.Catalog.Path = source
	}
	return cfg
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, bool) {
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewLogger(cfg, debug), debug
}

// openEngine builds the engine for a command. The caller closes the Backend.
func openEngine(ctx context.Context, cmd *cobra.Command, opts cli.EngineOptions) (*config.Config, *journey.Engine, *cli.Backend) {
	cfg := loadConfig(cmd)
	logger, debug := newLogger(cmd, cfg)
	opts.Logger = logger
	opts.Debug = debug

	eng, backend, err := cli.CreateEngine(ctx, cfg, opts)
	if err != nil {
		fmt.Printf("Error initializing journey: %v\n", err)
		os.Exit(1)
	}
	return cfg, eng, backend
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	httpAdapter "github.com/aretw0/journey/internal/adapters/http"
	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the journal as a JSON API over HTTP, with the compiled ledger as text
and Prometheus metrics on /metrics. The catalog is reloaded when its file changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		cfg := loadConfig(cmd)
		logger, debug := newLogger(cmd, cfg)
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		opts := cli.EngineOptions{
			Debug:  debug,
			Logger: logger,
			Hooks:  []domain.LifecycleHooks{metrics.Hooks()},
		}
		eng, backend, err := cli.CreateEngine(ctx, cfg, opts)
		if err != nil {
			fmt.Printf("Error initializing journey: %v\n", err)
			os.Exit(1)
		}
		defer backend.Close()

		server := httpAdapter.NewServer(eng,
			httpAdapter.WithMetrics(metrics, reg),
			httpAdapter.WithFilename(cfg.Artifact.Filename),
			httpAdapter.WithLogger(logger),
		)

		if changes, err := eng.Watch(ctx); err != nil {
			logger.Warn("Catalog hot reload disabled", "err", err)
		} else {
			reloader := cli.NewReloader(cfg, backend, opts)
			go func() {
				for range changes {
					next, err := reloader.Reload(ctx)
					if err != nil {
						logger.Error("Catalog reload failed, keeping the previous one", "err", err)
						continue
					}
					server.Swap(next)
					logger.Info("Catalog reloaded", "steps", len(next.Catalog()))
				}
			}()
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Journey Server on %s\n", srv.Addr)
			fmt.Printf("Serving catalog from: %s\n", cfg.Catalog.Path)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				fmt.Printf("Server error: %v\n", err)
				os.Exit(1)
			}

		case <-ctx.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Journey Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}

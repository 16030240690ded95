package main

import (
	"fmt"
	"os"

	"github.com/aretw0/journey/internal/cli"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage persisted ledgers",
	Long:  `List, inspect, and remove the ledger slots stored in the configured backend.`,
}

var ledgerLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all ledger slots",
	Run: func(cmd *cobra.Command, args []string) {
		backend := getBackend(cmd)
		defer backend.Close()

		slots, err := backend.Store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing ledgers: %v\n", err)
			os.Exit(1)
		}

		if len(slots) == 0 {
			fmt.Println("No ledgers found.")
			return
		}

		fmt.Println("Ledgers:")
		for _, s := range slots {
			fmt.Println("- " + s)
		}
	},
}

var ledgerInspectCmd = &cobra.Command{
	Use:   "inspect [slot]",
	Short: "Print the stored answers of a ledger",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := getBackend(cmd)
		defer backend.Close()

		slot := slotArg(cmd, args)
		ledger, err := backend.Store.Load(cmd.Context(), slot)
		if err != nil {
			fmt.Printf("Error loading ledger '%s': %v\n", slot, err)
			os.Exit(1)
		}

		raw, err := domain.EncodeLedger(ledger)
		if err != nil {
			fmt.Printf("Error encoding ledger: %v\n", err)
			os.Exit(1)
		}
		var pretty any
		if err := json.Unmarshal(raw, &pretty); err != nil {
			fmt.Printf("Error encoding ledger: %v\n", err)
			os.Exit(1)
		}
		data, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding ledger: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var ledgerRmCmd = &cobra.Command{
	Use:   "rm <slot>...",
	Short: "Remove one or more ledgers",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := getBackend(cmd)
		defer backend.Close()
		hasError := false

		for _, slot := range args {
			if err := backend.Store.Clear(cmd.Context(), slot); err != nil {
				fmt.Printf("Error removing '%s': %v\n", slot, err)
				hasError = true
			} else {
				fmt.Printf("Removed ledger '%s'\n", slot)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerLsCmd)
	ledgerCmd.AddCommand(ledgerInspectCmd)
	ledgerCmd.AddCommand(ledgerRmCmd)
}

func getBackend(cmd *cobra.Command) *cli.Backend {
	backend, err := cli.OpenBackend(loadConfig(cmd))
	if err != nil {
		fmt.Printf("Error opening ledger: %v\n", err)
		os.Exit(1)
	}
	return backend
}

func slotArg(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return loadConfig(cmd).Ledger.Slot
}

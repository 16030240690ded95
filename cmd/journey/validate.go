package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/pkg/catalog"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check the step catalog for consistency",
	Long:  `Loads the catalog and reports duplicate ids, dangling next references, cycles and unreachable steps.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		source := cfg.Catalog.Path
		if len(args) > 0 {
			source = args[0]
		}

		report, err := runValidate(cmd, source)
		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate reports on a steps file or URL without rejecting it first.
// Markdown directories are validated by their loader, so only errors come back.
func runValidate(cmd *cobra.Command, source string) (catalog.Report, error) {
	var c domain.Catalog
	var err error
	switch {
	case catalog.IsURL(source):
		c, err = catalog.LoadURL(cmd.Context(), http.DefaultClient, source)
	case isDir(source):
		eng, err := journey.NewContext(cmd.Context(), source)
		if err != nil {
			return catalog.Report{}, err
		}
		c = eng.Catalog()
	default:
		c, err = catalog.LoadFile(source)
	}
	if err != nil {
		return catalog.Report{}, err
	}
	report := catalog.Validate(c)
	return report, report.Err()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

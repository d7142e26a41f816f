// Command timbercheck evaluates timber beams from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Timber/internal/calc/material"
)

// RootCommand builds the command tree.
func RootCommand() *cobra.Command {
	var materialsFile string

	rootCmd := &cobra.Command{
		Use:           "timbercheck",
		Short:         "EN 1995 checks of simply supported timber beams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&materialsFile, "materials", "", "YAML or XLSX grade table (default: built-in EN 338 / EN 14080 grades)")

	catalog := func() (*material.Catalog, error) {
		if materialsFile == "" {
			return material.Default()
		}
		return material.Load(materialsFile)
	}

	rootCmd.AddCommand(
		CheckCommand(catalog),
		MaterialsCommand(catalog),
		SuggestCommand(catalog),
	)
	return rootCmd
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

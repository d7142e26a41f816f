package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Timber/internal/calc/premium/autodesign"
)

// SuggestCommand searches the smallest section enlargement for the required
// fire resistance.
func SuggestCommand(catalog catalogFunc) *cobra.Command {
	var flags beamFlags

	suggestCmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest an enlarged section for the required fire resistance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.fireRequested() {
				return fmt.Errorf("--fire is required")
			}
			cat, err := catalog()
			if err != nil {
				return err
			}
			res, err := autodesign.FireSection(cat, flags.input())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Current.Bending)
			fmt.Fprintln(out, res.Current.Shear)
			fmt.Fprintln(out, res.Notes)
			return nil
		},
	}
	flags.register(suggestCmd.Flags())

	return suggestCmd
}

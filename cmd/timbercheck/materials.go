package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Timber/internal/calc/material"
)

// MaterialsCommand lists the strength classes of the catalog.
func MaterialsCommand(catalog catalogFunc) *cobra.Command {
	var kind string

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "List available strength classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := material.Kind(kind)
			if kind != "" && !k.Valid() {
				return fmt.Errorf("unknown kind %q, use solid or glulam", kind)
			}
			cat, err := catalog()
			if err != nil {
				return err
			}

			kinds := []material.Kind{material.KindSolid, material.KindGlulam}
			if kind != "" {
				kinds = []material.Kind{k}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GRADE\tKIND\tfm,k\tfv,k\tE0,mean\tE0,05\trho,k\trho,mean")
			for _, k := range kinds {
				for _, t := range cat.ByKind(k) {
					fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\n", t.Name, t.Kind, t.FmK, t.FvK, t.E0Mean, t.E005, t.RhoK, t.RhoMean)
				}
			}
			return tw.Flush()
		},
	}
	materialsCmd.Flags().StringVar(&kind, "kind", "", "solid or glulam")

	return materialsCmd
}

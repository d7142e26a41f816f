package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"Timber/internal/calc/report"
	"Timber/internal/calc/timber"
)

// CheckCommand evaluates one beam and prints the protocol summary.
func CheckCommand(catalog catalogFunc) *cobra.Command {
	var (
		flags   beamFlags
		pdfPath string
		project string
		author  string
		asJSON  bool
	)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check a beam for ULS, SLS and optionally fire",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog()
			if err != nil {
				return err
			}
			res, err := timber.Calculate(cat, flags.input())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printResult(out, res)
			}

			if pdfPath == "" {
				return nil
			}
			f, err := os.Create(pdfPath)
			if err != nil {
				return err
			}
			if err := report.Render(f, res, report.Meta{Project: project, Author: author, Date: time.Now()}); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			if !asJSON {
				fmt.Fprintf(out, "Protocol written to %s\n", pdfPath)
			}
			return nil
		},
	}

	flags.register(checkCmd.Flags())
	checkCmd.Flags().StringVar(&pdfPath, "pdf", "", "write the PDF protocol to this file")
	checkCmd.Flags().StringVar(&project, "project", "", "project name printed on the protocol")
	checkCmd.Flags().StringVar(&author, "author", "", "author printed on the protocol")
	checkCmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return checkCmd
}

func printResult(w io.Writer, res timber.Result) {
	s := res.Structural
	fmt.Fprintf(w, "%s %gx%g mm, L = %g m\n", res.Material.Name, res.Input.WidthMM, res.Input.HeightMM, res.Input.SpanM)
	fmt.Fprintf(w, "q_Ed = %.2f kN/m, M_Ed = %.2f kNm, V_Ed = %.2f kN\n", res.Loads.DesignLoadKNM, res.Loads.MomentKNM, res.Loads.ShearKN)
	fmt.Fprintln(w, s.Bending)
	fmt.Fprintln(w, s.Shear)
	fmt.Fprintln(w, s.Buckling)
	fmt.Fprintln(w, s.Deflection)
	if res.Fire != nil {
		r := res.Fire.Reduced
		fmt.Fprintf(w, "Fire R%d: reduced section %.1fx%.1f mm\n", res.Fire.Params.DurationMin, r.BFi, r.HFi)
		fmt.Fprintln(w, res.Fire.Bending)
		fmt.Fprintln(w, res.Fire.Shear)
	}
	fmt.Fprintln(w, res.Summary)
	fmt.Fprintln(w, res.Verdict())
}

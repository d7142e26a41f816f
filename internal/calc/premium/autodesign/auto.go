// Package autodesign proposes an enlarged section for a required fire
// resistance.
package autodesign

import (
	"fmt"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/material"
	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
)

type FireResult struct {
	Current    fire.Report     `json:"current"`
	Suggestion fire.Suggestion `json:"suggestion"`
	Notes      string          `json:"notes"`
}

// FireSection checks the fire part of in and, when it fails, searches the
// smallest equal enlargement of width and depth.
func FireSection(cat *material.Catalog, in timber.Input) (FireResult, error) {
	if in.Fire == nil {
		return FireResult{}, calcerr.Field("fire", nil, "fire resistance required")
	}
	p, err := timber.Prepare(cat, in)
	if err != nil {
		return FireResult{}, err
	}
	exp, _ := p.FireExposure()
	rep, s, err := fire.Suggest(p.Material, p.Section, p.Load, exp)
	if err != nil {
		return FireResult{}, err
	}

	out := FireResult{Current: rep, Suggestion: s}
	switch {
	case rep.AllPassed:
		out.Notes = fmt.Sprintf("Section %s satisfies R%d.", p.Section, exp.DurationMin)
	case s.Found:
		out.Notes = fmt.Sprintf("Enlarge to %gx%g mm (+%g mm) for R%d.", s.WidthMM, s.HeightMM, s.DeltaMM, exp.DurationMin)
	default:
		out.Notes = fmt.Sprintf("No enlargement up to +490 mm satisfies R%d.", exp.DurationMin)
	}
	return out, nil
}

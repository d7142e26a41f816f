// Package recommend picks the lightest strength class that satisfies all
// checks for a given beam.
package recommend

import (
	"cmp"
	"errors"
	"slices"

	"Timber/internal/calc/material"
	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
)

type Evaluator interface {
	Evaluate(operation string, in timber.Input) (timber.Result, error)
}

type Input struct {
	Kind material.Kind `json:"kind"`
	Beam timber.Input  `json:"beam"`
}

type Candidate struct {
	Grade          string  `json:"grade"`
	RhoMean        float64 `json:"rho_mean"`
	MaxUtilization float64 `json:"max_uls_utilization"`
	Passed         bool    `json:"passed"`
}

type Result struct {
	Found      bool           `json:"found"`
	Grade      string         `json:"grade,omitempty"`
	Result     *timber.Result `json:"result,omitempty"`
	Candidates []Candidate    `json:"candidates"`
}

// Grade evaluates the beam with every grade of the kind, lightest first, and
// returns the first that passes. The grade of in.Beam is ignored.
func Grade(cat *material.Catalog, eval Evaluator, in Input) (Result, error) {
	if in.Kind == "" {
		in.Kind = material.KindSolid
	}
	if !in.Kind.Valid() {
		return Result{}, calcerr.Field("kind", in.Kind, "must be solid or glulam")
	}

	grades := cat.ByKind(in.Kind)
	slices.SortStableFunc(grades, func(a, b material.Timber) int {
		return cmp.Or(cmp.Compare(a.RhoMean, b.RhoMean), cmp.Compare(a.FmK, b.FmK))
	})

	out := Result{Candidates: make([]Candidate, 0, len(grades))}
	for _, g := range grades {
		beam := in.Beam
		beam.Grade = g.Name
		res, err := eval.Evaluate("recommend", beam)
		if err != nil {
			// the input is invalid for every grade
			return Result{}, err
		}
		out.Candidates = append(out.Candidates, Candidate{
			Grade:          g.Name,
			RhoMean:        g.RhoMean,
			MaxUtilization: res.Structural.MaxULSUtilization,
			Passed:         res.AllPassed,
		})
		if res.AllPassed && !out.Found {
			out.Found = true
			out.Grade = g.Name
			out.Result = &res
		}
	}
	if len(out.Candidates) == 0 {
		return Result{}, errors.New("catalog has no grades of kind " + string(in.Kind))
	}
	return out, nil
}

package fire

import (
	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/section"
)

const (
	suggestStep = 10
	suggestMax  = 500 // exclusive
)

// Suggestion is the smallest equal enlargement of both dimensions that
// survives the fire. Found is false when the section already passes or no
// probed enlargement does.
type Suggestion struct {
	Found    bool    `json:"found"`
	WidthMM  float64 `json:"b_mm,omitempty"`
	HeightMM float64 `json:"h_mm,omitempty"`
	DeltaMM  float64 `json:"delta_mm,omitempty"`
}

// Suggest checks the section for the exposure and, if it fails, probes
// enlargements of 10, 20 ... 490 mm added to both width and depth.
func Suggest(mat material.Timber, sec section.Rectangular, load loads.Case, exp Exposure) (Report, Suggestion, error) {
	c, err := New(mat, sec, load, exp)
	if err != nil {
		return Report{}, Suggestion{}, err
	}
	rep := c.RunAll()
	if rep.AllPassed {
		return rep, Suggestion{}, nil
	}

	for delta := suggestStep; delta < suggestMax; delta += suggestStep {
		d := float64(delta)
		bigger, err := section.New(sec.B()+d, sec.H()+d)
		if err != nil {
			return Report{}, Suggestion{}, err
		}
		probe, err := New(mat, bigger, load, exp)
		if err != nil {
			return Report{}, Suggestion{}, err
		}
		if probe.RunAll().AllPassed {
			return rep, Suggestion{Found: true, WidthMM: bigger.B(), HeightMM: bigger.H(), DeltaMM: d}, nil
		}
	}
	return rep, Suggestion{}, nil
}

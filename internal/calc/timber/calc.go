// Package timber evaluates a beam request: it validates the primitive input,
// runs the structural checks and, when requested, the fire checks.
package timber

import (
	"fmt"
	"slices"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/fire"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/section"
	"Timber/internal/calcerr"
)

const (
	MinLefFactor = 0.5
	MaxLefFactor = 2.0
)

type FireInput struct {
	DurationMin int          `json:"duration_min"`
	Exposure    fire.Pattern `json:"exposure"`
	UseBeta0    bool         `json:"use_beta_0"`
}

type Input struct {
	Grade           string             `json:"grade"`
	WidthMM         float64            `json:"width_mm"`
	HeightMM        float64            `json:"height_mm"`
	SpanM           float64            `json:"span_m"`
	LoadGKNM        float64            `json:"g_k_kn_m"`
	LoadQKNM        float64            `json:"q_k_kn_m"`
	ServiceClass    loads.ServiceClass `json:"service_class"`
	Duration        loads.Duration     `json:"load_duration"`
	Category        loads.Category     `json:"load_category"`
	LefFactor       float64            `json:"lef_factor"`
	DeflectionLimit int                `json:"deflection_limit"`
	Fire            *FireInput         `json:"fire,omitempty"`
}

// Normalize fills in the defaults of omitted optional fields.
func (in Input) Normalize() Input {
	if in.ServiceClass == 0 {
		in.ServiceClass = loads.ServiceClass1
	}
	if in.Duration == "" {
		in.Duration = loads.MediumTerm
	}
	if in.Category == "" {
		in.Category = loads.DefaultCategory
	}
	if in.LefFactor == 0 {
		in.LefFactor = beam.DefaultLefFactor
	}
	if in.DeflectionLimit == 0 {
		in.DeflectionLimit = beam.DefaultDeflectionLimit
	}
	if in.Fire != nil && in.Fire.Exposure == "" {
		f := *in.Fire
		f.Exposure = fire.ThreeSides
		in.Fire = &f
	}
	return in
}

// Validate checks the fields the engines leave to the caller.
func (in Input) Validate() error {
	if in.Grade == "" {
		return calcerr.Field("grade", in.Grade, "required")
	}
	if !(in.LefFactor >= MinLefFactor && in.LefFactor <= MaxLefFactor) {
		return calcerr.Field("lef_factor", in.LefFactor, fmt.Sprintf("must be within %.1f and %.1f", MinLefFactor, MaxLefFactor))
	}
	if !slices.Contains(beam.DeflectionLimits, in.DeflectionLimit) {
		return calcerr.Field("deflection_limit", in.DeflectionLimit, fmt.Sprintf("must be one of %v", beam.DeflectionLimits))
	}
	return nil
}

type Result struct {
	Input      Input              `json:"input"`
	Material   material.Timber    `json:"material"`
	Section    section.Properties `json:"section"`
	Loads      loads.Result       `json:"loads"`
	Structural beam.Report        `json:"structural"`
	Fire       *fire.Report       `json:"fire,omitempty"`
	AllPassed  bool               `json:"all_passed"`
	Summary    string             `json:"summary"`
}

// Prepared holds the validated engine inputs of a request.
type Prepared struct {
	Input    Input
	Material material.Timber
	Section  section.Rectangular
	Load     loads.Case
}

// Prepare normalizes and validates in and builds the engine inputs.
func Prepare(cat *material.Catalog, in Input) (Prepared, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Prepared{}, err
	}
	mat, err := cat.Lookup(in.Grade)
	if err != nil {
		return Prepared{}, err
	}
	sec, err := section.New(in.WidthMM, in.HeightMM)
	if err != nil {
		return Prepared{}, err
	}
	load, err := loads.New(in.LoadGKNM, in.LoadQKNM, in.SpanM, in.ServiceClass, in.Duration, in.Category)
	if err != nil {
		return Prepared{}, err
	}
	return Prepared{Input: in, Material: mat, Section: sec, Load: load}, nil
}

// FireExposure converts the fire part of the input; ok is false without one.
func (p Prepared) FireExposure() (fire.Exposure, bool) {
	if p.Input.Fire == nil {
		return fire.Exposure{}, false
	}
	return fire.Exposure{
		DurationMin:    p.Input.Fire.DurationMin,
		Pattern:        p.Input.Fire.Exposure,
		OneDimensional: p.Input.Fire.UseBeta0,
	}, true
}

// Calculate evaluates one beam against the grades of cat.
func Calculate(cat *material.Catalog, in Input) (Result, error) {
	p, err := Prepare(cat, in)
	if err != nil {
		return Result{}, err
	}
	in, mat, sec, load := p.Input, p.Material, p.Section, p.Load
	check, err := beam.New(mat, sec, load, in.LefFactor, in.DeflectionLimit)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Input:      in,
		Material:   mat,
		Section:    sec.Properties(),
		Loads:      load.Result(),
		Structural: check.RunAll(),
	}
	res.AllPassed = res.Structural.AllPassed

	if exp, ok := p.FireExposure(); ok {
		fc, err := fire.New(mat, sec, load, exp)
		if err != nil {
			return Result{}, err
		}
		rep := fc.RunAll()
		res.Fire = &rep
		res.AllPassed = res.AllPassed && rep.AllPassed && rep.Reduced.IsValid()
	}
	res.Summary = res.summary()
	return res, nil
}

// summary renders e.g. "ULS: 50.6% | Fire R30: 21.1%".
func (r Result) summary() string {
	s := fmt.Sprintf("ULS: %.1f%%", r.Structural.MaxULSUtilization*100)
	if r.Fire == nil {
		return s
	}
	if !r.Fire.Reduced.IsValid() {
		return s + fmt.Sprintf(" | Fire R%d: FAILED", r.Fire.Params.DurationMin)
	}
	return s + fmt.Sprintf(" | Fire R%d: %.1f%%", r.Fire.Params.DurationMin, r.Fire.MaxUtilization()*100)
}

// Verdict is the one-line conclusion of a protocol.
func (r Result) Verdict() string {
	if r.AllPassed {
		return "The beam SATISFIES all checks"
	}
	return "The beam DOES NOT SATISFY all checks"
}

// FileName is the protocol file name, e.g. check_C24_160x400_R30.pdf.
func (r Result) FileName() string {
	name := fmt.Sprintf("check_%s_%gx%g", r.Input.Grade, r.Input.WidthMM, r.Input.HeightMM)
	if r.Fire != nil {
		name += fmt.Sprintf("_R%d", r.Fire.Params.DurationMin)
	}
	return name + ".pdf"
}

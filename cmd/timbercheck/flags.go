package main

import (
	"github.com/spf13/pflag"

	"Timber/internal/calc/beam"
	"Timber/internal/calc/fire"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/timber"
)

type catalogFunc func() (*material.Catalog, error)

// beamFlags collects the beam input shared by check and suggest.
type beamFlags struct {
	grade        string
	width        float64
	height       float64
	span         float64
	gk, qk       float64
	serviceClass int
	duration     string
	category     string
	lef          float64
	limit        int
	fireMin      int
	exposure     string
	beta0        bool

	fs *pflag.FlagSet
}

func (f *beamFlags) register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.grade, "grade", material.DefaultSolid, "strength class, e.g. C24 or GL24h")
	fs.Float64Var(&f.width, "width", 0, "section width b [mm]")
	fs.Float64Var(&f.height, "height", 0, "section depth h [mm]")
	fs.Float64Var(&f.span, "span", 0, "span L [m]")
	fs.Float64Var(&f.gk, "gk", 0, "characteristic permanent load [kN/m]")
	fs.Float64Var(&f.qk, "qk", 0, "characteristic variable load [kN/m]")
	fs.IntVar(&f.serviceClass, "service-class", int(loads.ServiceClass1), "service class 1, 2 or 3")
	fs.StringVar(&f.duration, "duration", string(loads.MediumTerm), "load-duration class")
	fs.StringVar(&f.category, "category", string(loads.DefaultCategory), "imposed load category for psi2")
	fs.Float64Var(&f.lef, "lef", beam.DefaultLefFactor, "effective length factor lef/L")
	fs.IntVar(&f.limit, "limit", beam.DefaultDeflectionLimit, "deflection limit L/x")
	fs.IntVar(&f.fireMin, "fire", 0, "required fire resistance R [min]; omit to skip the fire check")
	fs.StringVar(&f.exposure, "exposure", string(fire.ThreeSides), "fire exposure: three_sides or four_sides")
	fs.BoolVar(&f.beta0, "beta0", false, "use the one-dimensional charring rate")
}

func (f *beamFlags) input() timber.Input {
	in := timber.Input{
		Grade:           f.grade,
		WidthMM:         f.width,
		HeightMM:        f.height,
		SpanM:           f.span,
		LoadGKNM:        f.gk,
		LoadQKNM:        f.qk,
		ServiceClass:    loads.ServiceClass(f.serviceClass),
		Duration:        loads.Duration(f.duration),
		Category:        loads.Category(f.category),
		LefFactor:       f.lef,
		DeflectionLimit: f.limit,
	}
	if f.fireRequested() {
		in.Fire = &timber.FireInput{
			DurationMin: f.fireMin,
			Exposure:    fire.Pattern(f.exposure),
			UseBeta0:    f.beta0,
		}
	}
	return in
}

// fireRequested reports whether --fire was given. Its value, whatever it is,
// is left to the fire engine to validate.
func (f *beamFlags) fireRequested() bool {
	return f.fs != nil && f.fs.Changed("fire")
}

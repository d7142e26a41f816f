// Package section computes properties of rectangular timber cross-sections.
// Lengths are in mm.
package section

import (
	"fmt"
	"math"

	"Timber/internal/calcerr"
)

// Rectangular is a b x h section; y is the strong axis (bending in the h direction).
type Rectangular struct {
	b, h float64
}

// New validates the dimensions before any property is derived.
func New(b, h float64) (Rectangular, error) {
	if !(b > 0) || math.IsInf(b, 1) {
		return Rectangular{}, calcerr.Field("width", b, "must be a positive finite number")
	}
	if !(h > 0) || math.IsInf(h, 1) {
		return Rectangular{}, calcerr.Field("depth", h, "must be a positive finite number")
	}
	return Rectangular{b: b, h: h}, nil
}

func (s Rectangular) B() float64 { return s.b }
func (s Rectangular) H() float64 { return s.h }

// A is the area [mm2].
func (s Rectangular) A() float64 { return s.b * s.h }

// Iy is the second moment of area about the strong axis [mm4].
func (s Rectangular) Iy() float64 { return s.b * s.h * s.h * s.h / 12 }

// Iz is the second moment of area about the weak axis [mm4].
func (s Rectangular) Iz() float64 { return s.h * s.b * s.b * s.b / 12 }

// Wy is the elastic section modulus about the strong axis [mm3].
func (s Rectangular) Wy() float64 { return s.b * s.h * s.h / 6 }

// Wz is the elastic section modulus about the weak axis [mm3].
func (s Rectangular) Wz() float64 { return s.h * s.b * s.b / 6 }

// RadiusY is the radius of gyration about the strong axis [mm].
func (s Rectangular) RadiusY() float64 { return s.h / math.Sqrt(12) }

// RadiusZ is the radius of gyration about the weak axis [mm].
func (s Rectangular) RadiusZ() float64 { return s.b / math.Sqrt(12) }

// Itor approximates the St. Venant torsion constant as beta * long * short^3 [mm4].
func (s Rectangular) Itor() float64 {
	long, short := math.Max(s.b, s.h), math.Min(s.b, s.h)
	return TorsionCoefficient(long/short) * long * short * short * short
}

// torsionTable is the step function of beta over the aspect ratio long/short.
var torsionTable = []struct {
	upTo float64
	beta float64
}{
	{1.0, 0.141},
	{1.5, 0.196},
	{2.0, 0.229},
	{3.0, 0.263},
	{4.0, 0.281},
	{6.0, 0.299},
	{10.0, 0.312},
}

// TorsionCoefficient returns beta for an aspect ratio (long side / short side).
func TorsionCoefficient(ratio float64) float64 {
	for _, row := range torsionTable {
		if ratio <= row.upTo {
			return row.beta
		}
	}
	return 0.333
}

func (s Rectangular) String() string {
	return fmt.Sprintf("%.0fx%.0f mm", s.b, s.h)
}

// Properties is the derived geometry in report form.
type Properties struct {
	WidthMM float64 `json:"b_mm"`
	DepthMM float64 `json:"h_mm"`
	AreaMM2 float64 `json:"a_mm2"`
	IyMM4   float64 `json:"iy_mm4"`
	IzMM4   float64 `json:"iz_mm4"`
	WyMM3   float64 `json:"wy_mm3"`
	WzMM3   float64 `json:"wz_mm3"`
	IyRadMM float64 `json:"i_y_mm"`
	IzRadMM float64 `json:"i_z_mm"`
	ItorMM4 float64 `json:"itor_mm4"`
}

func (s Rectangular) Properties() Properties {
	return Properties{
		WidthMM: s.b,
		DepthMM: s.h,
		AreaMM2: s.A(),
		IyMM4:   s.Iy(),
		IzMM4:   s.Iz(),
		WyMM3:   s.Wy(),
		WzMM3:   s.Wz(),
		IyRadMM: s.RadiusY(),
		IzRadMM: s.RadiusZ(),
		ItorMM4: s.Itor(),
	}
}

// Package fire checks a timber beam for a required fire resistance with the
// reduced cross-section method of EN 1995-1-2, clause 4.2.2.
package fire

import (
	"encoding/json"
	"fmt"
	"math"

	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/section"
	"Timber/internal/calcerr"
)

const (
	// D0 is the zero-strength layer [mm].
	D0 = 7.0
	// KFi converts 5% fractile strengths to 20% fractile.
	KFi      = 1.25
	GammaMFi = 1.0
	KmodFi   = 1.0

	// Psi1 is the simplified frequent factor of the accidental combination.
	Psi1 = 0.5
	// EtaFiFallback is used when the ULS design load is zero.
	EtaFiFallback = 0.6
)

// Pattern names the faces exposed to fire.
type Pattern string

const (
	// ThreeSides is a beam embedded in a floor with its top face protected.
	ThreeSides Pattern = "three_sides"
	// FourSides is a freestanding beam.
	FourSides Pattern = "four_sides"
)

func (p Pattern) Valid() bool {
	return p == ThreeSides || p == FourSides
}

// Durations are the resistance classes offered to the user, in minutes.
var Durations = []int{15, 30, 45, 60, 90, 120}

type charringRate struct {
	beta0 float64 // one-dimensional
	betaN float64 // notional, includes corner rounding and fissures
}

// EN 1995-1-2 table 3.1, softwood with rho_k >= 290 kg/m3 [mm/min].
var charringRates = map[material.Kind]charringRate{
	material.KindSolid:  {beta0: 0.65, betaN: 0.80},
	material.KindGlulam: {beta0: 0.65, betaN: 0.70},
}

// Beta returns the charring rate for the timber kind.
func Beta(kind material.Kind, oneDimensional bool) float64 {
	r := charringRates[kind]
	if oneDimensional {
		return r.beta0
	}
	return r.betaN
}

// Exposure is the requested fire situation.
type Exposure struct {
	DurationMin    int     `json:"duration_min"`
	Pattern        Pattern `json:"exposure"`
	OneDimensional bool    `json:"use_beta_0"`
}

// ReducedSection is the residual cross-section [mm]. Dimensions are clamped at zero.
type ReducedSection struct {
	BFi   float64 `json:"b_fi_mm"`
	HFi   float64 `json:"h_fi_mm"`
	DChar float64 `json:"d_char_mm"`
	DEf   float64 `json:"d_ef_mm"`
}

func (r ReducedSection) AFi() float64  { return r.BFi * r.HFi }
func (r ReducedSection) IyFi() float64 { return r.BFi * r.HFi * r.HFi * r.HFi / 12 }
func (r ReducedSection) WyFi() float64 { return r.BFi * r.HFi * r.HFi / 6 }

// IsValid reports whether anything of the section is left.
func (r ReducedSection) IsValid() bool {
	return r.BFi > 0 && r.HFi > 0
}

func (r ReducedSection) MarshalJSON() ([]byte, error) {
	type plain ReducedSection
	return json.Marshal(struct {
		plain
		AFi   float64 `json:"a_fi_mm2"`
		IyFi  float64 `json:"iy_fi_mm4"`
		WyFi  float64 `json:"wy_fi_mm3"`
		Valid bool    `json:"is_valid"`
	}{plain(r), r.AFi(), r.IyFi(), r.WyFi(), r.IsValid()})
}

// CheckResult is one fire check. A consumed section carries infinite
// utilization and stress and never passes.
type CheckResult struct {
	Name        string  `json:"name"`
	Utilization float64 `json:"utilization"`
	StressMPa   float64 `json:"stress_d_fi_mpa"`
	StrengthMPa float64 `json:"strength_d_fi_mpa"`
	Passed      bool    `json:"passed"`
	Consumed    bool    `json:"consumed"`
}

func consumed(name string, strength float64) CheckResult {
	return CheckResult{
		Name:        name,
		Utilization: math.Inf(1),
		StressMPa:   math.Inf(1),
		StrengthMPa: strength,
		Consumed:    true,
	}
}

func newCheckResult(name string, stress, strength float64) CheckResult {
	util := stress / strength
	return CheckResult{
		Name:        name,
		Utilization: util,
		StressMPa:   stress,
		StrengthMPa: strength,
		Passed:      util <= 1.0,
	}
}

func (r CheckResult) UtilizationPercent() float64 {
	return r.Utilization * 100
}

func (r CheckResult) String() string {
	if r.Consumed {
		return fmt.Sprintf("%s: section consumed [FAILED]", r.Name)
	}
	status := "FAILED"
	if r.Passed {
		status = "OK"
	}
	return fmt.Sprintf("%s: %.1f%% [%s]", r.Name, r.UtilizationPercent(), status)
}

// MarshalJSON writes the infinite values of a consumed section as null.
func (r CheckResult) MarshalJSON() ([]byte, error) {
	var util, stress *float64
	if !r.Consumed {
		util, stress = &r.Utilization, &r.StressMPa
	}
	return json.Marshal(struct {
		Name        string   `json:"name"`
		Utilization *float64 `json:"utilization"`
		StressMPa   *float64 `json:"stress_d_fi_mpa"`
		StrengthMPa float64  `json:"strength_d_fi_mpa"`
		Passed      bool     `json:"passed"`
		Consumed    bool     `json:"consumed"`
	}{r.Name, util, stress, r.StrengthMPa, r.Passed, r.Consumed})
}

// UnmarshalJSON restores the infinite values of a consumed section.
func (r *CheckResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string   `json:"name"`
		Utilization *float64 `json:"utilization"`
		StressMPa   *float64 `json:"stress_d_fi_mpa"`
		StrengthMPa float64  `json:"strength_d_fi_mpa"`
		Passed      bool     `json:"passed"`
		Consumed    bool     `json:"consumed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = CheckResult{Name: raw.Name, StrengthMPa: raw.StrengthMPa, Passed: raw.Passed, Consumed: raw.Consumed}
	if raw.Consumed {
		r.Utilization, r.StressMPa = math.Inf(1), math.Inf(1)
		return nil
	}
	if raw.Utilization != nil {
		r.Utilization = *raw.Utilization
	}
	if raw.StressMPa != nil {
		r.StressMPa = *raw.StressMPa
	}
	return nil
}

// Check evaluates one beam in one fire situation.
type Check struct {
	mat  material.Timber
	sec  section.Rectangular
	load loads.Case
	exp  Exposure
}

// New validates the exposure. An empty pattern means ThreeSides.
func New(mat material.Timber, sec section.Rectangular, load loads.Case, exp Exposure) (*Check, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	if exp.Pattern == "" {
		exp.Pattern = ThreeSides
	}
	return &Check{mat: mat, sec: sec, load: load, exp: exp}, nil
}

// Validate rejects a non-positive duration and an unknown pattern. An empty
// pattern is accepted and means three sides.
func (e Exposure) Validate() error {
	if e.DurationMin <= 0 {
		return calcerr.Field("fire_duration", e.DurationMin, "must be positive")
	}
	if e.Pattern != "" && !e.Pattern.Valid() {
		return calcerr.Field("exposure", e.Pattern, "must be three_sides or four_sides")
	}
	return nil
}

func (c *Check) Exposure() Exposure { return c.exp }

// Beta is the charring rate [mm/min].
func (c *Check) Beta() float64 {
	return Beta(c.mat.Kind, c.exp.OneDimensional)
}

// DChar is the charring depth [mm].
func (c *Check) DChar() float64 {
	return c.Beta() * float64(c.exp.DurationMin)
}

// DEf is the effective charring depth [mm].
func (c *Check) DEf() float64 {
	return c.DChar() + D0
}

func (c *Check) ReducedSection() ReducedSection {
	def := c.DEf()
	b := c.sec.B() - 2*def
	h := c.sec.H() - def
	if c.exp.Pattern == FourSides {
		h = c.sec.H() - 2*def
	}
	return ReducedSection{
		BFi:   math.Max(0, b),
		HFi:   math.Max(0, h),
		DChar: c.DChar(),
		DEf:   def,
	}
}

func (c *Check) FmDFi() float64 {
	return KmodFi * KFi * c.mat.FmK / GammaMFi
}

func (c *Check) FvDFi() float64 {
	return KmodFi * KFi * c.mat.FvK / GammaMFi
}

// EtaFi is (Gk + psi1*Qk) / qEd, or EtaFiFallback when qEd is zero.
func (c *Check) EtaFi() float64 {
	qEd := c.load.QEd()
	if qEd > 0 {
		return (c.load.Gk() + Psi1*c.load.Qk()) / qEd
	}
	return EtaFiFallback
}

// MEdFi reduces the ordinary design moment [kNm].
func (c *Check) MEdFi() float64 {
	return c.EtaFi() * c.load.MEd()
}

// VEdFi reduces the ordinary design shear [kN].
func (c *Check) VEdFi() float64 {
	return c.EtaFi() * c.load.VEd()
}

func (c *Check) Bending() CheckResult {
	const name = "Bending (fire)"
	r := c.ReducedSection()
	if !r.IsValid() {
		return consumed(name, c.FmDFi())
	}
	return newCheckResult(name, c.MEdFi()*1e6/r.WyFi(), c.FmDFi())
}

// Shear omits kcr; the charred layer is already excluded from the area.
func (c *Check) Shear() CheckResult {
	const name = "Shear (fire)"
	r := c.ReducedSection()
	if !r.IsValid() {
		return consumed(name, c.FvDFi())
	}
	return newCheckResult(name, 1.5*c.VEdFi()*1e3/r.AFi(), c.FvDFi())
}

type Params struct {
	DurationMin int     `json:"duration_min"`
	Pattern     Pattern `json:"exposure"`
	Beta        float64 `json:"beta"`
	DChar       float64 `json:"d_char_mm"`
	DEf         float64 `json:"d_ef_mm"`
	EtaFi       float64 `json:"eta_fi"`
	MEdFiKNM    float64 `json:"m_ed_fi_knm"`
	VEdFiKN     float64 `json:"v_ed_fi_kn"`
	FmDFi       float64 `json:"fm_d_fi"`
	FvDFi       float64 `json:"fv_d_fi"`
}

type OriginalSection struct {
	B float64 `json:"b_mm"`
	H float64 `json:"h_mm"`
}

type Report struct {
	Reduced   ReducedSection  `json:"reduced_section"`
	Bending   CheckResult     `json:"bending"`
	Shear     CheckResult     `json:"shear"`
	AllPassed bool            `json:"all_passed"`
	Params    Params          `json:"fire_params"`
	Original  OriginalSection `json:"original_section"`
}

// MaxUtilization is the larger of the two fire utilizations.
func (r Report) MaxUtilization() float64 {
	return math.Max(r.Bending.Utilization, r.Shear.Utilization)
}

func (c *Check) RunAll() Report {
	bending := c.Bending()
	shear := c.Shear()
	return Report{
		Reduced:   c.ReducedSection(),
		Bending:   bending,
		Shear:     shear,
		AllPassed: bending.Passed && shear.Passed,
		Params: Params{
			DurationMin: c.exp.DurationMin,
			Pattern:     c.exp.Pattern,
			Beta:        c.Beta(),
			DChar:       c.DChar(),
			DEf:         c.DEf(),
			EtaFi:       c.EtaFi(),
			MEdFiKNM:    c.MEdFi(),
			VEdFiKN:     c.VEdFi(),
			FmDFi:       c.FmDFi(),
			FvDFi:       c.FvDFi(),
		},
		Original: OriginalSection{B: c.sec.B(), H: c.sec.H()},
	}
}

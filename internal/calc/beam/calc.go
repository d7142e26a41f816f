// Package beam checks a simply supported rectangular timber beam under a uniform
// load against EN 1995-1-1: bending, shear, lateral torsional buckling and
// deflection.
package beam

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
	DefaultLefFactor       = 1.0
	DefaultDeflectionLimit = 300

	// peak of the parabolic shear stress distribution in a rectangle
	shearPeakFactor = 1.5
)

// DeflectionLimits are the offered L/n denominators.
var DeflectionLimits = []int{150, 200, 250, 300, 350, 400, 500}

// CheckResult is one ULS check. Stresses in MPa.
type CheckResult struct {
	Name        string  `json:"name"`
	Utilization float64 `json:"utilization"`
	StressMPa   float64 `json:"stress_d_mpa"`
	StrengthMPa float64 `json:"strength_d_mpa"`
	Passed      bool    `json:"passed"`
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
	return fmt.Sprintf("%s: %.1f%% [%s]", r.Name, r.UtilizationPercent(), status(r.Passed))
}

// DeflectionResult is the SLS check. Deflections in mm.
type DeflectionResult struct {
	InstMM     float64 `json:"w_inst_mm"`
	FinMM      float64 `json:"w_fin_mm"`
	LimitMM    float64 `json:"w_limit_mm"`
	LimitRatio int     `json:"limit_ratio"`
	Passed     bool    `json:"passed"`
}

func (d DeflectionResult) Utilization() float64 {
	return d.FinMM / d.LimitMM
}

func (d DeflectionResult) UtilizationPercent() float64 {
	return d.Utilization() * 100
}

func (d DeflectionResult) String() string {
	return fmt.Sprintf("Deflection: %.1f mm <= %.1f mm (L/%d) [%s]", d.FinMM, d.LimitMM, d.LimitRatio, status(d.Passed))
}

func (d DeflectionResult) MarshalJSON() ([]byte, error) {
	type plain DeflectionResult
	return json.Marshal(struct {
		plain
		Utilization float64 `json:"utilization"`
	}{plain(d), d.Utilization()})
}

func status(passed bool) string {
	if passed {
		return "OK"
	}
	return "FAILED"
}

// Check evaluates one beam. It holds only read-only inputs.
type Check struct {
	mat       material.Timber
	sec       section.Rectangular
	load      loads.Case
	lefFactor float64
	limit     int
}

// New builds a check. A zero lefFactor or limit selects the default; negative
// values are rejected.
func New(mat material.Timber, sec section.Rectangular, load loads.Case, lefFactor float64, deflectionLimit int) (*Check, error) {
	if lefFactor == 0 {
		lefFactor = DefaultLefFactor
	}
	if deflectionLimit == 0 {
		deflectionLimit = DefaultDeflectionLimit
	}
	if !(lefFactor > 0) {
		return nil, calcerr.Field("lef_factor", lefFactor, "must be positive")
	}
	if deflectionLimit < 0 {
		return nil, calcerr.Field("deflection_limit", deflectionLimit, "must be positive")
	}
	return &Check{mat: mat, sec: sec, load: load, lefFactor: lefFactor, limit: deflectionLimit}, nil
}

// FmD is the design bending strength kmod*fm,k/gammaM [MPa].
func (c *Check) FmD() float64 {
	return c.load.Kmod() * c.mat.FmK / c.mat.GammaM()
}

// FvD is the design shear strength kmod*fv,k/gammaM [MPa].
func (c *Check) FvD() float64 {
	return c.load.Kmod() * c.mat.FvK / c.mat.GammaM()
}

// sigmaMd converts MEd [kNm] over Wy [mm3] to MPa.
func (c *Check) sigmaMd() float64 {
	return c.load.MEd() * 1e6 / c.sec.Wy()
}

// Bending is clause 6.1.6.
func (c *Check) Bending() CheckResult {
	return newCheckResult("Bending", c.sigmaMd(), c.FmD())
}

// Shear is clause 6.1.7 with the crack factor on the area.
func (c *Check) Shear() CheckResult {
	tau := shearPeakFactor * c.load.VEd() * 1e3 / (c.mat.Kcr() * c.sec.A())
	return newCheckResult("Shear", tau, c.FvD())
}

// EffectiveLength is lef = factor * span [mm].
func (c *Check) EffectiveLength() float64 {
	return c.lefFactor * c.load.Span() * 1000
}

// SigmaMCrit is the critical bending stress of a rectangle, 0.78 b^2 E0,05 / (h lef) [MPa].
func (c *Check) SigmaMCrit() float64 {
	b := c.sec.B()
	return 0.78 * b * b * c.mat.E005 / (c.sec.H() * c.EffectiveLength())
}

// LambdaRelM is the relative slenderness for bending.
func (c *Check) LambdaRelM() float64 {
	return math.Sqrt(c.mat.FmK / c.SigmaMCrit())
}

func (c *Check) Kcrit() float64 {
	return Kcrit(c.LambdaRelM())
}

// Kcrit is equation 6.34.
func Kcrit(lambdaRelM float64) float64 {
	switch {
	case lambdaRelM <= 0.75:
		return 1.0
	case lambdaRelM <= 1.4:
		return 1.56 - 0.75*lambdaRelM
	default:
		return 1 / (lambdaRelM * lambdaRelM)
	}
}

// LateralTorsionalBuckling is clause 6.3.3: sigma_m,d <= kcrit * fm,d.
func (c *Check) LateralTorsionalBuckling() CheckResult {
	return newCheckResult("Lateral torsional buckling", c.sigmaMd(), c.Kcrit()*c.FmD())
}

// Deflection is clause 7.2. The final deflection splits the instantaneous
// deflection of the characteristic combination by the permanent and variable
// shares of that load and applies (1+kdef) and (1+psi2*kdef) to them; it assumes
// deflection is linear in load rather than solving the two parts separately.
func (c *Check) Deflection() DeflectionResult {
	l := c.load.Span() * 1000
	q := c.load.QChar() // kN/m equals N/mm

	wInst := 5 * q * math.Pow(l, 4) / (384 * c.mat.E0Mean * c.sec.Iy())

	gShare, qShare := 1.0, 0.0
	if q > 0 {
		gShare = c.load.Gk() / q
		qShare = c.load.Qk() / q
	}
	kdef := c.load.Kdef()
	wFin := wInst * (gShare*(1+kdef) + qShare*(1+c.load.Psi2()*kdef))

	limit := l / float64(c.limit)
	return DeflectionResult{
		InstMM:     wInst,
		FinMM:      wFin,
		LimitMM:    limit,
		LimitRatio: c.limit,
		Passed:     wFin <= limit,
	}
}

type InternalForces struct {
	MEdKNM float64 `json:"m_ed_knm"`
	VEdKN  float64 `json:"v_ed_kn"`
}

type DesignValues struct {
	Kmod       float64 `json:"kmod"`
	GammaM     float64 `json:"gamma_m"`
	FmD        float64 `json:"fm_d"`
	FvD        float64 `json:"fv_d"`
	Kcrit      float64 `json:"kcrit"`
	LambdaRelM float64 `json:"lambda_rel_m"`
}

// Report aggregates all four checks.
type Report struct {
	Bending           CheckResult      `json:"bending"`
	Shear             CheckResult      `json:"shear"`
	Buckling          CheckResult      `json:"lateral_torsional_buckling"`
	Deflection        DeflectionResult `json:"deflection"`
	AllPassed         bool             `json:"all_passed"`
	MaxULSUtilization float64          `json:"max_uls_utilization"`
	InternalForces    InternalForces   `json:"internal_forces"`
	DesignValues      DesignValues     `json:"design_values"`
}

// RunAll performs every check.
func (c *Check) RunAll() Report {
	bending := c.Bending()
	shear := c.Shear()
	ltb := c.LateralTorsionalBuckling()
	defl := c.Deflection()

	return Report{
		Bending:           bending,
		Shear:             shear,
		Buckling:          ltb,
		Deflection:        defl,
		AllPassed:         bending.Passed && shear.Passed && ltb.Passed && defl.Passed,
		MaxULSUtilization: math.Max(bending.Utilization, math.Max(shear.Utilization, ltb.Utilization)),
		InternalForces: InternalForces{
			MEdKNM: c.load.MEd(),
			VEdKN:  c.load.VEd(),
		},
		DesignValues: DesignValues{
			Kmod:       c.load.Kmod(),
			GammaM:     c.mat.GammaM(),
			FmD:        c.FmD(),
			FvD:        c.FvD(),
			Kcrit:      c.Kcrit(),
			LambdaRelM: c.LambdaRelM(),
		},
	}
}

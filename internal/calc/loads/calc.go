// Package loads holds the load case of a simply supported, uniformly loaded
// timber beam: EN 1995-1-1 modification factors and EN 1990 combinations.
// Line loads in kN/m, span in m.
package loads

import (
	"math"

	"Timber/internal/calcerr"
)

type ServiceClass int

const (
	ServiceClass1 ServiceClass = 1
	ServiceClass2 ServiceClass = 2
	ServiceClass3 ServiceClass = 3
)

func (sc ServiceClass) Valid() bool {
	return sc >= ServiceClass1 && sc <= ServiceClass3
}

// Duration is the load-duration class of the governing action.
type Duration string

const (
	Permanent     Duration = "permanent"
	LongTerm      Duration = "long_term"
	MediumTerm    Duration = "medium_term"
	ShortTerm     Duration = "short_term"
	Instantaneous Duration = "instantaneous"
)

// Durations lists the classes from longest to shortest.
var Durations = []Duration{Permanent, LongTerm, MediumTerm, ShortTerm, Instantaneous}

func (d Duration) Valid() bool {
	_, ok := kmodTable[ServiceClass1][d]
	return ok
}

func (d Duration) Label() string {
	switch d {
	case Permanent:
		return "Permanent"
	case LongTerm:
		return "Long-term"
	case MediumTerm:
		return "Medium-term"
	case ShortTerm:
		return "Short-term"
	case Instantaneous:
		return "Instantaneous"
	default:
		return string(d)
	}
}

// Category selects psi2 for the quasi-permanent combination.
type Category string

const (
	CategoryA    Category = "cat_A" // residential
	CategoryB    Category = "cat_B" // offices
	CategoryC    Category = "cat_C" // congregation areas
	CategoryD    Category = "cat_D" // shopping
	CategoryE    Category = "cat_E" // storage
	CategoryH    Category = "cat_H" // roofs, not accessible
	CategorySnow Category = "snow"  // sites below 1000 m
	CategoryWind Category = "wind"

	DefaultCategory = CategoryA
)

// kmodTable is EN 1995-1-1 table 3.1 for solid and glued laminated timber.
var kmodTable = map[ServiceClass]map[Duration]float64{
	ServiceClass1: {Permanent: 0.60, LongTerm: 0.70, MediumTerm: 0.80, ShortTerm: 0.90, Instantaneous: 1.10},
	ServiceClass2: {Permanent: 0.60, LongTerm: 0.70, MediumTerm: 0.80, ShortTerm: 0.90, Instantaneous: 1.10},
	ServiceClass3: {Permanent: 0.50, LongTerm: 0.55, MediumTerm: 0.65, ShortTerm: 0.70, Instantaneous: 0.90},
}

// kdefTable is EN 1995-1-1 table 3.2.
var kdefTable = map[ServiceClass]float64{
	ServiceClass1: 0.60,
	ServiceClass2: 0.80,
	ServiceClass3: 2.00,
}

// psi2Table is EN 1990 table A1.1.
var psi2Table = map[Category]float64{
	CategoryA:    0.3,
	CategoryB:    0.3,
	CategoryC:    0.6,
	CategoryD:    0.6,
	CategoryE:    0.8,
	CategoryH:    0.0,
	CategorySnow: 0.0,
	CategoryWind: 0.0,
}

const psi2Fallback = 0.3

// Partial factors of combination 6.10.
const (
	GammaG = 1.35
	GammaQ = 1.5
)

// Kmod looks up the modification factor; ok is false outside the table.
func Kmod(sc ServiceClass, d Duration) (float64, bool) {
	v, ok := kmodTable[sc][d]
	return v, ok
}

// Kdef looks up the creep factor; ok is false outside the table.
func Kdef(sc ServiceClass) (float64, bool) {
	v, ok := kdefTable[sc]
	return v, ok
}

// Psi2 never fails: unknown categories fall back to 0.3.
func Psi2(cat Category) float64 {
	if v, ok := psi2Table[cat]; ok {
		return v
	}
	return psi2Fallback
}

// Case is a validated load case. All derived values are recomputed on access.
type Case struct {
	gk, qk, span float64
	sc           ServiceClass
	duration     Duration
	category     Category
}

// New validates the load case. An empty category selects DefaultCategory.
func New(gk, qk, span float64, sc ServiceClass, d Duration, cat Category) (Case, error) {
	if !(gk >= 0) || math.IsInf(gk, 1) {
		return Case{}, calcerr.Field("g_k", gk, "permanent load must be a non-negative finite number")
	}
	if !(qk >= 0) || math.IsInf(qk, 1) {
		return Case{}, calcerr.Field("q_k", qk, "variable load must be a non-negative finite number")
	}
	if !(span > 0) || math.IsInf(span, 1) {
		return Case{}, calcerr.Field("span", span, "must be a positive finite number")
	}
	if !sc.Valid() {
		return Case{}, calcerr.Field("service_class", int(sc), "must be 1, 2 or 3")
	}
	if !d.Valid() {
		return Case{}, calcerr.Field("load_duration", string(d), "unknown load-duration class")
	}
	if cat == "" {
		cat = DefaultCategory
	}
	return Case{gk: gk, qk: qk, span: span, sc: sc, duration: d, category: cat}, nil
}

func (c Case) Gk() float64                { return c.gk }
func (c Case) Qk() float64                { return c.qk }
func (c Case) Span() float64              { return c.span }
func (c Case) ServiceClass() ServiceClass { return c.sc }
func (c Case) Duration() Duration         { return c.duration }
func (c Case) Category() Category         { return c.category }

func (c Case) Kmod() float64 {
	v, _ := Kmod(c.sc, c.duration)
	return v
}

func (c Case) Kdef() float64 {
	v, _ := Kdef(c.sc)
	return v
}

func (c Case) Psi2() float64 {
	return Psi2(c.category)
}

// QEd is the ULS design line load, combination 6.10 [kN/m].
func (c Case) QEd() float64 {
	return GammaG*c.gk + GammaQ*c.qk
}

// QChar is the characteristic SLS combination [kN/m].
func (c Case) QChar() float64 {
	return c.gk + c.qk
}

// QQuasi is the quasi-permanent SLS combination [kN/m].
func (c Case) QQuasi() float64 {
	return c.gk + c.Psi2()*c.qk
}

// MEd is the midspan design moment qL^2/8 [kNm].
func (c Case) MEd() float64 {
	return c.QEd() * c.span * c.span / 8
}

// VEd is the support design shear qL/2 [kN].
func (c Case) VEd() float64 {
	return c.QEd() * c.span / 2
}

func (c Case) MChar() float64 {
	return c.QChar() * c.span * c.span / 8
}

func (c Case) MQuasi() float64 {
	return c.QQuasi() * c.span * c.span / 8
}

type Input struct {
	LoadGKNM     float64      `json:"g_k_kn_m"`
	LoadQKNM     float64      `json:"q_k_kn_m"`
	SpanM        float64      `json:"span_m"`
	ServiceClass ServiceClass `json:"service_class"`
	Duration     Duration     `json:"load_duration"`
	Category     Category     `json:"load_category"`
}

type Result struct {
	DesignLoadKNM float64  `json:"q_ed_kn_m"`
	CharLoadKNM   float64  `json:"q_char_kn_m"`
	QuasiLoadKNM  float64  `json:"q_quasi_kn_m"`
	MomentKNM     float64  `json:"m_ed_knm"`
	ShearKN       float64  `json:"v_ed_kn"`
	MomentCharKNM float64  `json:"m_char_knm"`
	MomentQuasi   float64  `json:"m_quasi_knm"`
	Kmod          float64  `json:"kmod"`
	Kdef          float64  `json:"kdef"`
	Psi2          float64  `json:"psi_2"`
	Category      Category `json:"load_category"`
	ComboName     string   `json:"combo_name"`
	Notes         string   `json:"notes"`
}

// Calculate evaluates a load case given as primitive input. Zero service class
// and empty duration default to class 1, medium-term.
func Calculate(in Input) (Result, error) {
	if in.ServiceClass == 0 {
		in.ServiceClass = ServiceClass1
	}
	if in.Duration == "" {
		in.Duration = MediumTerm
	}
	c, err := New(in.LoadGKNM, in.LoadQKNM, in.SpanM, in.ServiceClass, in.Duration, in.Category)
	if err != nil {
		return Result{}, err
	}
	return c.Result(), nil
}

func (c Case) Result() Result {
	return Result{
		DesignLoadKNM: c.QEd(),
		CharLoadKNM:   c.QChar(),
		QuasiLoadKNM:  c.QQuasi(),
		MomentKNM:     c.MEd(),
		ShearKN:       c.VEd(),
		MomentCharKNM: c.MChar(),
		MomentQuasi:   c.MQuasi(),
		Kmod:          c.Kmod(),
		Kdef:          c.Kdef(),
		Psi2:          c.Psi2(),
		Category:      c.category,
		ComboName:     "EN 1990 (6.10)",
		Notes:         "Simply supported span, uniformly distributed load.",
	}
}
